package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLiteStore persists device usage in the device_usage table.
type SQLiteStore struct {
	DB    *sql.DB
	Limit int
}

// NewSQLiteStore constructs a SQLiteStore with the configured free limit.
func NewSQLiteStore(db *sql.DB, limit int) *SQLiteStore {
	if limit <= 0 {
		limit = 1
	}
	return &SQLiteStore{DB: db, Limit: limit}
}

func (s *SQLiteStore) Get(ctx context.Context, fingerprint string) (Usage, error) {
	u, err := s.get(ctx, fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return s.insertDefault(ctx, fingerprint)
	}
	return u, err
}

func (s *SQLiteStore) Consume(ctx context.Context, fingerprint string, n int) (Usage, error) {
	u, err := s.Get(ctx, fingerprint)
	if err != nil {
		return Usage{}, err
	}
	if u.Paid || n <= 0 {
		return u, nil
	}
	if u.Used+n > u.Limit {
		return u, ErrLimitReached
	}
	now := time.Now().UTC()
	_, err = s.DB.ExecContext(ctx,
		`UPDATE device_usage SET used = used + ?, updated_at = ? WHERE fingerprint = ?`,
		n, now.Format(time.RFC3339), fingerprint,
	)
	if err != nil {
		return Usage{}, err
	}
	u.Used += n
	u.UpdatedAt = now
	return u, nil
}

func (s *SQLiteStore) MarkPaid(ctx context.Context, fingerprint string) (Usage, error) {
	u, err := s.Get(ctx, fingerprint)
	if err != nil {
		return Usage{}, err
	}
	now := time.Now().UTC()
	_, err = s.DB.ExecContext(ctx,
		`UPDATE device_usage SET paid = 1, updated_at = ? WHERE fingerprint = ?`,
		now.Format(time.RFC3339), fingerprint,
	)
	if err != nil {
		return Usage{}, err
	}
	u.Paid = true
	u.UpdatedAt = now
	return u, nil
}

func (s *SQLiteStore) get(ctx context.Context, fingerprint string) (Usage, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT fingerprint, used, usage_limit, paid, created_at, updated_at
		 FROM device_usage WHERE fingerprint = ?`, fingerprint)

	var u Usage
	var paid int
	var createdAt, updatedAt string
	if err := row.Scan(&u.Fingerprint, &u.Used, &u.Limit, &paid, &createdAt, &updatedAt); err != nil {
		return Usage{}, err
	}
	u.Paid = paid != 0
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return u, nil
}

func (s *SQLiteStore) insertDefault(ctx context.Context, fingerprint string) (Usage, error) {
	now := time.Now().UTC()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO device_usage (fingerprint, used, usage_limit, paid, created_at, updated_at)
		 VALUES (?, 0, ?, 0, ?, ?)
		 ON CONFLICT(fingerprint) DO NOTHING`,
		fingerprint, s.Limit, now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return Usage{}, err
	}
	return s.get(ctx, fingerprint)
}

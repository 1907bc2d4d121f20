package usage

import "context"

type store interface {
	Get(ctx context.Context, fingerprint string) (Usage, error)
	Consume(ctx context.Context, fingerprint string, n int) (Usage, error)
	MarkPaid(ctx context.Context, fingerprint string) (Usage, error)
}

// Service manages free-tier usage via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService(limit int) *Service {
	return &Service{store: newMemoryStore(limit)}
}

// NewSQLiteService constructs a Service backed by SQLite.
func NewSQLiteService(s store) *Service {
	return &Service{store: s}
}

// Get returns the current usage for a fingerprint, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, fingerprint string) (Usage, error) {
	return s.store.Get(ctx, fingerprint)
}

// CanConsume reports whether the fingerprint can run n more analyses.
func (s *Service) CanConsume(ctx context.Context, fingerprint string, n int) (bool, Usage, error) {
	u, err := s.store.Get(ctx, fingerprint)
	if err != nil {
		return false, Usage{}, err
	}
	if u.Paid || n <= 0 {
		return true, u, nil
	}
	return u.Used+n <= u.Limit, u, nil
}

// Consume increments usage by n if within limit; paid devices are unmetered.
func (s *Service) Consume(ctx context.Context, fingerprint string, n int) (Usage, error) {
	return s.store.Consume(ctx, fingerprint, n)
}

// MarkPaid flags a fingerprint as paid after a verified payment capture.
func (s *Service) MarkPaid(ctx context.Context, fingerprint string) (Usage, error) {
	return s.store.MarkPaid(ctx, fingerprint)
}

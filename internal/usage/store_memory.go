package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.Mutex
	limit int
	items map[string]Usage
}

func newMemoryStore(limit int) *memoryStore {
	if limit <= 0 {
		limit = 1
	}
	return &memoryStore{
		limit: limit,
		items: make(map[string]Usage),
	}
}

func (m *memoryStore) Get(_ context.Context, fingerprint string) (Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensure(fingerprint), nil
}

func (m *memoryStore) Consume(_ context.Context, fingerprint string, n int) (Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.ensure(fingerprint)
	if u.Paid || n <= 0 {
		return u, nil
	}
	if u.Used+n > u.Limit {
		return u, ErrLimitReached
	}
	u.Used += n
	u.UpdatedAt = time.Now().UTC()
	m.items[fingerprint] = u
	return u, nil
}

func (m *memoryStore) MarkPaid(_ context.Context, fingerprint string) (Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.ensure(fingerprint)
	u.Paid = true
	u.UpdatedAt = time.Now().UTC()
	m.items[fingerprint] = u
	return u, nil
}

func (m *memoryStore) ensure(fingerprint string) Usage {
	if u, ok := m.items[fingerprint]; ok {
		return u
	}
	now := time.Now().UTC()
	u := Usage{
		Fingerprint: fingerprint,
		Limit:       m.limit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.items[fingerprint] = u
	return u
}

package ban

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps ban state in process. State is lost on restart and not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	strikes map[string][]time.Time
	bans    map[string]time.Time
	log     []BanLogEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strikes: make(map[string][]time.Time),
		bans:    make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryStore) AddStrike(_ context.Context, target string, window time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	recent := m.strikes[target][:0]
	for _, t := range m.strikes[target] {
		if now.Sub(t) < window {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	m.strikes[target] = recent
	return len(recent), nil
}

func (m *MemoryStore) Ban(_ context.Context, target string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bans[target] = m.now().Add(d)
	delete(m.strikes, target)
	return nil
}

func (m *MemoryStore) IsBanned(_ context.Context, target string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.bans[target]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.bans, target)
		return false, nil
	}
	return true, nil
}

func (m *MemoryStore) LogBan(_ context.Context, entry BanLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = append(m.log, entry)
	return nil
}

func (m *MemoryStore) DrainBanLog(_ context.Context) ([]BanLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.log
	m.log = nil
	return entries, nil
}

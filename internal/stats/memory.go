package stats

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps counters in process memory. Used in tests and as a
// fallback when no persistent backend is configured.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[int64]string // user id -> last active date
	downloads int64
	now       func() time.Time
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]string),
		now:   time.Now,
	}
}

func (m *MemoryStore) RecordUserSeen(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = m.now().Format(dateLayout)
	return nil
}

func (m *MemoryStore) IncrementDownloads(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads++
	return nil
}

func (m *MemoryStore) Snapshot(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := m.now().Format(dateLayout)
	snap := Snapshot{
		TotalUsers:     int64(len(m.users)),
		TotalDownloads: m.downloads,
	}
	for _, day := range m.users {
		if day == today {
			snap.ActiveToday++
		}
	}
	return snap, nil
}

func (m *MemoryStore) Close() error { return nil }

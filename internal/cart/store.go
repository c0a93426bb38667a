package cart

import (
	"context"
	"sync"
)

// GuestStore persists the guest cart between sessions. Save is called
// write-through on every guest-mode mutation; Load runs once at startup.
type GuestStore interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process guest store for tests and ephemeral runs.
type MemoryStore struct {
	mu    sync.Mutex
	lines []Line
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *MemoryStore) Save(ctx context.Context, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = make([]Line, len(lines))
	copy(m.lines, lines)
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = nil
	return nil
}

package store

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory event store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[int64]stored // runID -> event -> record
	closed bool
}

type stored struct {
	data      []byte
	timestamp time.Time
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[int64]stored),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(runID string, event int64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if m.data[runID] == nil {
		m.data[runID] = make(map[int64]stored)
	}

	// Copy data to avoid retaining caller's slice
	buf := make([]byte, len(data))
	copy(buf, data)
	m.data[runID][event] = stored{data: buf, timestamp: time.Now().UTC()}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(runID string, event int64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	rec, ok := m.data[runID][event]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(rec.data))
	copy(out, rec.data)
	return out, nil
}

// List implements Store.
func (m *MemoryStore) List(runID string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.data[runID]))
	for ev, rec := range m.data[runID] {
		infos = append(infos, Info{
			RunID:     runID,
			Event:     ev,
			Timestamp: rec.timestamp,
			Size:      int64(len(rec.data)),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Event < infos[j].Event })
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(runID string, event int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.data[runID], event)
	return nil
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.data, runID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}

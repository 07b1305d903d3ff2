// Package persist implements the write-through persistence adapter for
// board collections and the durable key-value slots it writes to.
package persist

import (
	"sync"

	"github.com/mesh-intelligence/boards/pkg/types"
)

// Slot is a durable key-value store holding one UTF-8 text value per key.
type Slot interface {
	// Read returns the value stored under key.
	// Returns types.ErrSlotEmpty if nothing has been written under key.
	Read(key string) ([]byte, error)

	// Write replaces the value stored under key.
	Write(key string, data []byte) error

	// Close releases resources held by the slot. Idempotent.
	Close() error
}

// MemorySlot is a Slot backed by a map. It backs the memory backend and
// tests. FailWrites and FailReads inject errors.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
	writes int

	FailWrites error
	FailReads  error
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailReads != nil {
		return nil, m.FailReads
	}
	v, ok := m.values[key]
	if !ok {
		return nil, types.ErrSlotEmpty
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (m *MemorySlot) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.values[key] = cp
	m.writes++
	return nil
}

func (m *MemorySlot) Close() error { return nil }

// Writes returns the number of successful writes.
func (m *MemorySlot) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

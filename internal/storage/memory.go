package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Slot. Writes counts successful Put calls.
type Memory struct {
	mu     sync.Mutex
	data   map[string][]byte
	Writes int

	// PutErr, when set, is returned by Put without storing anything.
	PutErr error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Put(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	v := make([]byte, len(payload))
	copy(v, payload)
	m.data[key] = v
	m.Writes++
	return nil
}

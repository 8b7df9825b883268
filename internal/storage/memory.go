package storage

import "sync"

// Memory is a process-local KV. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	values map[string]string

	// FailWrites makes Set return ErrWriteFailed; tests use it to
	// simulate a full disk.
	FailWrites bool
}

// NewMemory returns a Memory seeded with a copy of values.
func NewMemory(values map[string]string) *Memory {
	m := &Memory{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get implements KV.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrWriteFailed
	}
	m.values[key] = value
	return nil
}

// Close implements KV.
func (m *Memory) Close() error {
	return nil
}

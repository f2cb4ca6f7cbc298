package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is a process-local Durable. Values are kept JSON-encoded so reads never
// alias a caller's data.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func memoryKey(owner, key string) string {
	return owner + "\x00" + key
}

// Get decodes the value at owner/key into dst.
func (m *Memory) Get(_ context.Context, owner, key string, dst any) (bool, error) {
	m.mu.RLock()
	data, ok := m.values[memoryKey(owner, key)]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, &DecodeError{Key: key, Cause: err}
	}
	return true, nil
}

// Set encodes value and stores it at owner/key.
func (m *Memory) Set(_ context.Context, owner, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	m.mu.Lock()
	m.values[memoryKey(owner, key)] = data
	m.mu.Unlock()
	return nil
}

// Remove deletes owner/key; removing an absent key is not an error.
func (m *Memory) Remove(_ context.Context, owner, key string) error {
	m.mu.Lock()
	delete(m.values, memoryKey(owner, key))
	m.mu.Unlock()
	return nil
}

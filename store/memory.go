package store

import (
	"context"
	"sync"
)

type Memory struct {
	values map[string]string
	mutex  sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{
		values: map[string]string{},
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.values[key], nil
}

func (m *Memory) Set(_ context.Context, values map[string]string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for key, value := range values {
		m.values[key] = value
	}
	return nil
}

func (m *Memory) Remove(_ context.Context, keys ...string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

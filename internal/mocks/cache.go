package mocks

import (
	"errors"
	"sync"
	"time"
)

// MockCache is an in-memory stand-in for the Redis-backed store. Expirations
// are ignored; tests are short-lived.
type MockCache struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string]string)}
}

func (m *MockCache) Set(key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

func (m *MockCache) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.items[key]
	if !ok {
		return "", errors.New("key not found")
	}
	return value, nil
}

func (m *MockCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *MockCache) Exists(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.items[key]
	return ok, nil
}

func (m *MockCache) SetIfNotExists(key string, value string, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; ok {
		return false, nil
	}

	m.items[key] = value
	return true, nil
}

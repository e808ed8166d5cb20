package tokenstore

import (
	"context"
	"sync"
)

// Memory keeps the session in process memory. It is lost on exit.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) SaveTokens(_ context.Context, authToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[KeyAuthToken] = authToken
	m.values[KeyRefreshToken] = refreshToken
	return nil
}

func (m *Memory) AuthToken(_ context.Context) (string, bool, error) {
	return m.get(KeyAuthToken)
}

func (m *Memory) RefreshToken(_ context.Context) (string, bool, error) {
	return m.get(KeyRefreshToken)
}

func (m *Memory) SaveUserID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[KeyUserID] = id
	return nil
}

func (m *Memory) UserID(_ context.Context) (string, bool, error) {
	return m.get(KeyUserID)
}

func (m *Memory) ClearTokens(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.values)
	return nil
}

func (m *Memory) get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

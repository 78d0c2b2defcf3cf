package admission

import (
	"context"
	"sync"
)

// LocalTokenManager keeps tokens in memory for single-replica deployments.
type LocalTokenManager struct {
	mu       sync.Mutex
	tokens   int
	capacity int
}

func NewLocalTokenManager(capacity int) *LocalTokenManager {
	return &LocalTokenManager{tokens: capacity, capacity: capacity}
}

func (m *LocalTokenManager) AcquireToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens <= 0 {
		return ErrNoTokenAvailable
	}
	m.tokens--
	return nil
}

func (m *LocalTokenManager) ReleaseToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens < m.capacity {
		m.tokens++
	}
	return nil
}

func (m *LocalTokenManager) InitializeTokens(ctx context.Context, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens = count
	m.capacity = count
	return nil
}

// Available returns the number of tokens currently free.
func (m *LocalTokenManager) Available() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens
}

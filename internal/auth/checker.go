package auth

import (
	"context"
	"sync"
)

const TokenHeader = "X-SYCLAR-TOKEN"

var _ Checker = (*Service)(nil)
var _ Checker = (*TestChecker)(nil)

type Checker interface {
	UserID(ctx context.Context, token string) (string, error)
}

// TestChecker resolves tokens from an in-memory map.
type TestChecker struct {
	mutex    sync.RWMutex
	sessions map[string]string
}

func NewTestChecker() *TestChecker {
	return &TestChecker{
		sessions: map[string]string{},
	}
}

func (c *TestChecker) Add(token, userID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sessions[token] = userID
}

func (c *TestChecker) UserID(_ context.Context, token string) (string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	userID, ok := c.sessions[token]
	if !ok {
		return "", ErrSessionNotFound
	}
	return userID, nil
}

package usecases

import (
	"context"
	"sync"
)

// TakeLock serializes an agent's check-then-take sequence so the
// single-active-order guard cannot be raced by the same agent taking two
// different orders at once. Implementations are advisory and best-effort;
// the conditioned store write remains the authority for same-order races.
type TakeLock interface {
	// TryLock attempts to acquire the agent's lock without blocking and
	// returns a release func plus whether the lock was acquired.
	TryLock(ctx context.Context, agentID int64) (func(), bool)
}

// memoryTakeLock is the in-process fallback used when redis is not
// configured. It only covers a single instance, which matches the
// deployment the chat transport allows anyway.
type memoryTakeLock struct {
	mu   sync.Mutex
	held map[int64]struct{}
}

// NewMemoryTakeLock creates an in-process take lock
func NewMemoryTakeLock() TakeLock {
	return &memoryTakeLock{held: make(map[int64]struct{})}
}

func (l *memoryTakeLock) TryLock(_ context.Context, agentID int64) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[agentID]; ok {
		return func() {}, false
	}
	l.held[agentID] = struct{}{}

	return func() {
		l.mu.Lock()
		delete(l.held, agentID)
		l.mu.Unlock()
	}, true
}

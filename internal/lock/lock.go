package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotAcquired is returned when another holder owns the lock
var ErrNotAcquired = errors.New("lock is held by another run")

// Handle is an acquired lock
type Handle interface {
	Release(ctx context.Context) error
}

// Locker grants exclusive, expiring locks by key
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Handle, error)
}

// LocalLocker is an in-process Locker used when Redis is not configured
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

// NewLocalLocker creates an in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time)}
}

// Acquire takes key until Release or until ttl elapses
func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expires, ok := l.held[key]; ok && time.Now().Before(expires) {
		return nil, ErrNotAcquired
	}

	expires := time.Now().Add(ttl)
	l.held[key] = expires
	return &localHandle{locker: l, key: key, expires: expires}, nil
}

type localHandle struct {
	locker  *LocalLocker
	key     string
	expires time.Time
}

func (h *localHandle) Release(context.Context) error {
	h.locker.mu.Lock()
	defer h.locker.mu.Unlock()

	// A later holder may own the key once this handle expired
	if h.locker.held[h.key].Equal(h.expires) {
		delete(h.locker.held, h.key)
	}
	return nil
}

package lock

import (
	"context"
	"sync"

	"snipx-service/ddd/domain/port"
)

var _ port.VideoLocker = (*MemoryLocker)(nil)

// MemoryLocker is a per-process keyed lock, used when Redis is disabled.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) TryLock(_ context.Context, videoID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[videoID]; ok {
		return nil, port.ErrLockHeld
	}
	l.held[videoID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, videoID)
			l.mu.Unlock()
		})
	}, nil
}

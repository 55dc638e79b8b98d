package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipx-service/ddd/domain/port"
)

func TestMemoryLocker(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	unlock, err := l.TryLock(ctx, "v1")
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "v1")
	assert.ErrorIs(t, err, port.ErrLockHeld)

	other, err := l.TryLock(ctx, "v2")
	require.NoError(t, err)
	other()

	unlock()
	unlock()
	again, err := l.TryLock(ctx, "v1")
	require.NoError(t, err)
	again()
}

func TestMemoryLockerSingleWinner(t *testing.T) {
	l := NewMemoryLocker()
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.TryLock(context.Background(), "v"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

type fakeRedis struct {
	keys     map[string]string
	ttl      time.Duration
	unlocked []string
	err      error
}

func (f *fakeRedis) TryLock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	f.ttl = ttl
	if _, ok := f.keys[key]; ok {
		return "", false, nil
	}
	f.keys[key] = "tok-" + key
	return f.keys[key], true, nil
}

func (f *fakeRedis) Unlock(_ context.Context, key, token string) error {
	if f.keys[key] == token {
		delete(f.keys, key)
		f.unlocked = append(f.unlocked, key)
	}
	return nil
}

func TestRedisLocker(t *testing.T) {
	r := &fakeRedis{keys: map[string]string{}}
	l := NewRedisLocker(r, 0)
	ctx := context.Background()

	unlock, err := l.TryLock(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, r.ttl)

	_, err = l.TryLock(ctx, "v1")
	assert.ErrorIs(t, err, port.ErrLockHeld)

	unlock()
	assert.Equal(t, []string{keyPrefix + "v1"}, r.unlocked)

	r.err = errors.New("connection refused")
	_, err = l.TryLock(ctx, "v2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, port.ErrLockHeld)
}

package lock

import (
	"context"
	"fmt"
	"time"

	"snipx-service/ddd/domain/port"
	"snipx-service/pkg/logger"
)

var _ port.VideoLocker = (*RedisLocker)(nil)

const keyPrefix = "snipx:video:lock:"

// redisLockClient is satisfied by *redisclient.Client.
type redisLockClient interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Unlock(ctx context.Context, key, token string) error
}

// RedisLocker serializes runs across service instances. The ttl bounds how
// long a crashed holder can block a video.
type RedisLocker struct {
	client redisLockClient
	ttl    time.Duration
}

func NewRedisLocker(client redisLockClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) TryLock(ctx context.Context, videoID string) (func(), error) {
	key := keyPrefix + videoID
	token, ok, err := l.client.TryLock(ctx, key, l.ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire video lock: %w", err)
	}
	if !ok {
		return nil, port.ErrLockHeld
	}
	return func() {
		// 解锁不跟随请求 ctx，请求取消后也要释放
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := l.client.Unlock(ctx, key, token); err != nil {
			logger.Warnf("release video lock failed video_id=%s error=%v", videoID, err)
		}
	}, nil
}

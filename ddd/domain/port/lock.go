package port

import (
	"context"
	"errors"
)

// ErrLockHeld means another run already holds the video.
var ErrLockHeld = errors.New("video is locked by another run")

// VideoLocker serializes processing runs per video. TryLock never waits: it
// either returns an unlock func or ErrLockHeld.
type VideoLocker interface {
	TryLock(ctx context.Context, videoID string) (unlock func(), err error)
}

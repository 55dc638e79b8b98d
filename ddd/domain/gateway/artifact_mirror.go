package gateway

import "context"

// ArtifactMirror 把本地产物同步到对象存储
type ArtifactMirror interface {
	// Mirror uploads the local files under a per-video prefix and returns the object keys.
	Mirror(ctx context.Context, videoID string, paths []string) ([]string, error)

	// Remove deletes the mirrored copies of paths. Missing objects are not an error.
	Remove(ctx context.Context, videoID string, paths []string) error
}

package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// MediaStorage resolves stored media objects (workout images) to URLs a
// client can fetch directly.
type MediaStorage interface {
	// ImageURL creates a temporary URL that allows GET requests for a media
	// object directly from the storage provider.
	ImageURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

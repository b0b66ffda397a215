package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// VideoStorage is the object-storage interface for exercise demonstration
// videos. Objects are addressed by the exercise's video token.
type VideoStorage interface {
	// PresignUpload creates a temporary URL that allows a direct PUT of the
	// video object for the given token.
	PresignUpload(ctx context.Context, token string, contentType string, expires time.Duration) (string, error)

	// PresignDownload creates a temporary URL that allows a direct GET of the
	// video object for the given token.
	PresignDownload(ctx context.Context, token string, expires time.Duration) (string, error)

	// Delete removes the video object for the given token.
	Delete(ctx context.Context, token string) error
}

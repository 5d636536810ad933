package stores

import (
	"context"
	"io"
	"time"
)

// Store is a blob store that hands out time-limited retrieval URLs.
type Store interface {
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

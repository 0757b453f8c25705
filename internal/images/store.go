package images

import (
	"context"
	"io"
)

// Store persists uploaded image binaries with an external or local
// asset host and hands back a public URL.
type Store interface {
	Put(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
	// Delete removes a previously stored asset by its public URL.
	// URLs the store does not own are ignored.
	Delete(ctx context.Context, url string) error
}

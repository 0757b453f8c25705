package images

import (
	"context"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"storefront/internal/models"
)

// MaxUploadSize bounds accepted image uploads.
const MaxUploadSize = 5 << 20

// Ingestor turns an uploaded file, a URL string, or nothing into the
// image reference stored on a product.
type Ingestor struct {
	store  Store
	logger *slog.Logger
}

func NewIngestor(store Store, logger *slog.Logger) *Ingestor {
	return &Ingestor{store: store, logger: logger}
}

// Resolve picks the stored image reference. A usable uploaded file
// wins; otherwise a supplied URL is taken as-is; otherwise the
// placeholder. Non-image or oversized uploads are skipped, not
// rejected, so the caller falls through to the URL or default.
func (ing *Ingestor) Resolve(ctx context.Context, file *multipart.FileHeader, imageURL string) (string, error) {
	if file != nil {
		switch {
		case !strings.HasPrefix(file.Header.Get("Content-Type"), "image/"):
			ing.logger.Warn("upload skipped: not an image",
				slog.String("filename", file.Filename),
				slog.String("content_type", file.Header.Get("Content-Type")))
		case file.Size > MaxUploadSize:
			ing.logger.Warn("upload skipped: too large",
				slog.String("filename", file.Filename),
				slog.Int64("size", file.Size))
		default:
			f, err := file.Open()
			if err != nil {
				return "", err
			}
			defer f.Close()

			url, err := ing.store.Put(ctx, f, file.Filename, file.Header.Get("Content-Type"))
			if err != nil {
				return "", err
			}
			return url, nil
		}
	}

	if imageURL != "" {
		return imageURL, nil
	}
	return models.DefaultImage, nil
}

// Cleanup removes a replaced or orphaned asset in the background.
// Failures are logged and swallowed; a stale asset never blocks the
// primary operation.
func (ing *Ingestor) Cleanup(url string) {
	if url == "" || url == models.DefaultImage {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := ing.store.Delete(ctx, url); err != nil {
			ing.logger.Warn("image cleanup failed",
				slog.String("url", url),
				slog.Any("error", err))
		}
	}()
}

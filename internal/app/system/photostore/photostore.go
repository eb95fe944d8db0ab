// Package photostore stores racer photos. Two backends are provided:
// local disk for development and S3 for deployments. Handlers depend on
// the Store interface only; the backend is chosen at startup from
// configuration.
package photostore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the photo storage contract.
type Store interface {
	// Put uploads a photo and returns the storage key under which it
	// was saved.
	Put(ctx context.Context, kidID, filename string, content io.Reader, contentType string) (string, error)

	// Get opens the stored photo for reading. The caller must close
	// the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the stored photo. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a photo is stored under the key.
	Exists(ctx context.Context, key string) (bool, error)
}

// URLSigner is an optional Store capability. Backends that can hand out
// direct, time-limited download URLs implement it; the photo handler
// redirects to the signed URL instead of streaming the bytes itself.
type URLSigner interface {
	PresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

// buildKey generates a storage key: kid_id/year/month/uuid_filename.
// The uuid keeps re-uploads from colliding; the original filename is
// kept (sanitized) so downloads stay recognizable.
func buildKey(kidID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%s_%s",
		kidID,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		sanitizeFilename(filename),
	)
}

// sanitizeFilename keeps letters, digits, dots, and dashes; everything
// else becomes an underscore. Path separators must never survive into a
// storage key.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "photo"
	}
	return b.String()
}

// Package imagestore wraps the external image hosting service used for
// post and profile images.
package imagestore

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Store uploads an image (base64 data URI or remote URL, whatever the
// backing service accepts) and returns the hosted URL, and destroys a
// previously hosted image by its URL.
type Store interface {
	Upload(ctx context.Context, image string) (string, error)
	Destroy(ctx context.Context, url string) error
}

// Disabled rejects uploads; it is wired when no hosting service is
// configured so text-only deployments keep working.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, image string) (string, error) {
	return "", errors.New("image uploads are not configured", errors.CategoryValidation).
		WithTextCode("IMAGES_DISABLED")
}

func (Disabled) Destroy(ctx context.Context, url string) error {
	return nil
}

package imagestore

import (
	"context"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Cloudinary hosts images in a single folder, one random public id per
// upload.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudinaryURL, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to configure cloudinary")
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, image string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder:   c.folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to upload image")
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, url string) error {
	id := PublicIDFromURL(url, c.folder)
	if id == "" {
		return nil
	}

	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to destroy image")
	}
	return nil
}

// PublicIDFromURL recovers the public id from a hosted image URL: the last
// path segment minus its extension, prefixed with the folder.
func PublicIDFromURL(url, folder string) string {
	base := path.Base(url)
	if base == "." || base == "/" {
		return ""
	}

	id := strings.TrimSuffix(base, path.Ext(base))
	if id == "" {
		return ""
	}

	if folder != "" {
		id = folder + "/" + id
	}
	return id
}

package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/Vadim-3/b2-hm14/pkg/helpers"
)

// ImageHost stores avatars in a GCS bucket.
type ImageHost struct {
	Client *storage.Client
	Bucket string
	Now    func() time.Time
}

func NewImageHost(client *storage.Client, bucket string) *ImageHost {
	return &ImageHost{Client: client, Bucket: bucket, Now: time.Now}
}

// Upload overwrites the object at publicID. The returned URL carries a
// version parameter so clients drop cached copies of the previous image.
func (h *ImageHost) Upload(ctx context.Context, publicID, contentType string, r io.Reader) (string, error) {
	if h == nil || h.Client == nil || h.Bucket == "" {
		return "", errors.New("gcs not configured")
	}
	c, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	url, err := helpers.UploadObject(c, h.Client, h.Bucket, publicID, contentType, r)
	if err != nil {
		return "", err
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return fmt.Sprintf("%s?v=%d", url, now().UnixNano()), nil
}

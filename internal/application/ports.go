package application

import (
	"context"
	"io"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
)

// ContactIndexer mirrors contacts into a full-text index.
type ContactIndexer interface {
	Index(ctx context.Context, c entity.Contact) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]entity.Contact, error)
}

// ImageHost stores an image under publicID and returns its public URL.
type ImageHost interface {
	Upload(ctx context.Context, publicID, contentType string, r io.Reader) (string, error)
}

// EmailPublisher enqueues an email job for the worker.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

package repository

import (
	"context"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
)

// ContactRepository defines the persistence operations of the contact store.
// Natural ordering is ascending id. GetByID, Update and Delete return
// (nil, nil) when the id does not exist.
type ContactRepository interface {
	List(ctx context.Context, skip, limit int) ([]entity.Contact, error)
	All(ctx context.Context) ([]entity.Contact, error)
	GetByID(ctx context.Context, id int64) (*entity.Contact, error)
	Create(ctx context.Context, f entity.ContactFields) (*entity.Contact, error)
	Update(ctx context.Context, id int64, f entity.ContactFields) (*entity.Contact, error)
	Delete(ctx context.Context, id int64) (*entity.Contact, error)
}

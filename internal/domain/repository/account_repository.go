package repository

import (
	"context"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
)

// AccountRepository defines the persistence operations of the identity store.
// Lookups return (nil, nil) when no account matches.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	UpdateAvatar(ctx context.Context, id string, url string) (*entity.Account, error)
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
	SetConfirmed(ctx context.Context, email string) error
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	"github.com/Vadim-3/b2-hm14/internal/domain/repository"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*entity.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]*entity.Account)}
}

func clone(a *entity.Account) *entity.Account {
	cp := *a
	return &cp
}

func (r *AccountRepository) byEmail(email string) *entity.Account {
	for _, a := range r.accounts {
		if a.Email == email {
			return a
		}
	}
	return nil
}

func (r *AccountRepository) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byEmail(a.Email) != nil {
		return repository.ErrDuplicateEmail
	}
	now := time.Now()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.accounts[a.ID] = clone(a)
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.accounts[id]; ok {
		return clone(a), nil
	}
	return nil, nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a := r.byEmail(email); a != nil {
		return clone(a), nil
	}
	return nil, nil
}

func (r *AccountRepository) UpdateAvatar(_ context.Context, id string, url string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	a.Avatar = &url
	a.UpdatedAt = time.Now()
	return clone(a), nil
}

func (r *AccountRepository) UpdateRefreshToken(_ context.Context, id string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.RefreshToken = token
	a.UpdatedAt = time.Now()
	return nil
}

func (r *AccountRepository) SetConfirmed(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.byEmail(email)
	if a == nil {
		return repository.ErrNotFound
	}
	a.Confirmed = true
	a.UpdatedAt = time.Now()
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

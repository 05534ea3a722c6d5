// Package memory keeps the directory in process memory. It backs
// STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	"github.com/Vadim-3/b2-hm14/internal/domain/repository"
)

type ContactRepository struct {
	mu       sync.RWMutex
	nextID   int64
	contacts []entity.Contact // ascending id
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{nextID: 1}
}

func (r *ContactRepository) indexOf(id int64) int {
	for i := range r.contacts {
		if r.contacts[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *ContactRepository) List(_ context.Context, skip, limit int) ([]entity.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Contact, 0)
	if skip < 0 {
		skip = 0
	}
	if skip >= len(r.contacts) || limit <= 0 {
		return out, nil
	}
	// compare against what is left so skip+limit cannot overflow
	end := len(r.contacts)
	if limit < end-skip {
		end = skip + limit
	}
	return append(out, r.contacts[skip:end]...), nil
}

func (r *ContactRepository) All(_ context.Context) ([]entity.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]entity.Contact, 0, len(r.contacts)), r.contacts...), nil
}

func (r *ContactRepository) GetByID(_ context.Context, id int64) (*entity.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	c := r.contacts[i]
	return &c, nil
}

func (r *ContactRepository) Create(_ context.Context, f entity.ContactFields) (*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := entity.NewContact(f)
	c.ID = r.nextID
	r.nextID++
	r.contacts = append(r.contacts, *c)
	return c, nil
}

func (r *ContactRepository) Update(_ context.Context, id int64, f entity.ContactFields) (*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	f.Apply(&r.contacts[i])
	c := r.contacts[i]
	return &c, nil
}

func (r *ContactRepository) Delete(_ context.Context, id int64) (*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	c := r.contacts[i]
	r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
	return &c, nil
}

var _ repository.ContactRepository = (*ContactRepository)(nil)

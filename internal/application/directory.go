package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	repo "github.com/Vadim-3/b2-hm14/internal/domain/repository"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
)

// Directory answers contact queries and applies contact writes.
// Absent contacts are reported as a nil result, never as an error.
type Directory struct {
	Repo   repo.ContactRepository
	Index  ContactIndexer // optional
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewDirectory(r repo.ContactRepository, index ContactIndexer, logger *logrus.Logger) *Directory {
	return &Directory{Repo: r, Index: index, Logger: logger, Now: time.Now}
}

func (d *Directory) List(ctx context.Context, skip, limit int) ([]entity.Contact, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		return []entity.Contact{}, nil
	}
	out, err := d.Repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

func (d *Directory) GetByID(ctx context.Context, id int64) (*entity.Contact, error) {
	c, err := d.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	return c, nil
}

func (d *Directory) Create(ctx context.Context, f entity.ContactFields) (*entity.Contact, error) {
	c, err := d.Repo.Create(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	d.index(ctx, c)
	return c, nil
}

// Update overwrites every mutable field of contact id.
func (d *Directory) Update(ctx context.Context, id int64, f entity.ContactFields) (*entity.Contact, error) {
	c, err := d.Repo.Update(ctx, id, f)
	if err != nil {
		return nil, fmt.Errorf("update contact %d: %w", id, err)
	}
	if c != nil {
		d.index(ctx, c)
	}
	return c, nil
}

// Delete removes contact id and returns it as it was before removal.
func (d *Directory) Delete(ctx context.Context, id int64) (*entity.Contact, error) {
	c, err := d.Repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete contact %d: %w", id, err)
	}
	if c != nil && d.Index != nil {
		if err := d.Index.Remove(ctx, id); err != nil && d.Logger != nil {
			d.Logger.WithError(err).WithField("contact_id", id).Warn("contact index remove failed")
		}
	}
	return c, nil
}

// BirthdaysInWindow returns contacts whose birthday month and day each lie
// within the month and day bounds of [today, end].
func (d *Directory) BirthdaysInWindow(ctx context.Context, today, end time.Time) ([]entity.Contact, error) {
	all, err := d.Repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	return filterBirthdays(all, today, end, inBirthdayWindow), nil
}

// BirthdaysInCalendarWindow returns contacts whose next birthday falls
// between today and end inclusive.
func (d *Directory) BirthdaysInCalendarWindow(ctx context.Context, today, end time.Time) ([]entity.Contact, error) {
	all, err := d.Repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	return filterBirthdays(all, today, end, inCalendarWindow), nil
}

// UpcomingBirthdays looks days ahead of the current date.
func (d *Directory) UpcomingBirthdays(ctx context.Context, days int, calendar bool) ([]entity.Contact, error) {
	today := helpers.DateOf(d.now())
	end := today.AddDate(0, 0, days)
	if calendar {
		return d.BirthdaysInCalendarWindow(ctx, today, end)
	}
	return d.BirthdaysInWindow(ctx, today, end)
}

// Search returns contacts matching any supplied filter. Nil filters are
// ignored; with no filters the result is empty.
func (d *Directory) Search(ctx context.Context, firstName, lastName, email *string) ([]entity.Contact, error) {
	preds := searchPredicates(firstName, lastName, email)
	if len(preds) == 0 {
		return []entity.Contact{}, nil
	}
	all, err := d.Repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	return matchAny(all, preds), nil
}

// Lookup runs a free-text query against the contact index.
func (d *Directory) Lookup(ctx context.Context, q string, size int) ([]entity.Contact, error) {
	if d.Index == nil || q == "" {
		return []entity.Contact{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	out, err := d.Index.Search(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("lookup contacts: %w", err)
	}
	return out, nil
}

func (d *Directory) index(ctx context.Context, c *entity.Contact) {
	if d.Index == nil {
		return
	}
	if err := d.Index.Index(ctx, *c); err != nil && d.Logger != nil {
		d.Logger.WithError(err).WithField("contact_id", c.ID).Warn("contact index failed")
	}
}

func (d *Directory) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

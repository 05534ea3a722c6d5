package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	"github.com/Vadim-3/b2-hm14/internal/domain/repository"
)

const contactColumns = `id, first_name, last_name, birthday_date, email, phone_number, note`

// ContactRepository stores contacts in the contacts table.
// Update and Delete are single statements; concurrent writers on the same
// id are last-writer-wins.
type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	c := &entity.Contact{}
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.BirthdayDate, &c.Email, &c.PhoneNumber, &c.Note); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *ContactRepository) collect(rows pgx.Rows) ([]entity.Contact, error) {
	defer rows.Close()
	out := make([]entity.Contact, 0)
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.BirthdayDate, &c.Email, &c.PhoneNumber, &c.Note); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) List(ctx context.Context, skip, limit int) ([]entity.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		ORDER BY id
		OFFSET $1 LIMIT $2
	`, skip, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *ContactRepository) All(ctx context.Context) ([]entity.Contact, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*entity.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
}

func (r *ContactRepository) Create(ctx context.Context, f entity.ContactFields) (*entity.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `
		INSERT INTO contacts (first_name, last_name, birthday_date, email, phone_number, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contactColumns,
		f.FirstName, f.LastName, f.BirthdayDate, f.Email, f.PhoneNumber, f.Note))
}

func (r *ContactRepository) Update(ctx context.Context, id int64, f entity.ContactFields) (*entity.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `
		UPDATE contacts
		SET first_name = $1, last_name = $2, birthday_date = $3, email = $4, phone_number = $5, note = $6
		WHERE id = $7
		RETURNING `+contactColumns,
		f.FirstName, f.LastName, f.BirthdayDate, f.Email, f.PhoneNumber, f.Note, id))
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) (*entity.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `DELETE FROM contacts WHERE id = $1 RETURNING `+contactColumns, id))
}

var _ repository.ContactRepository = (*ContactRepository)(nil)

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	"github.com/Vadim-3/b2-hm14/internal/domain/repository"
)

const uniqueViolation = "23505"

const accountColumns = `id, username, email, password_hash, avatar, refresh_token, confirmed, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Password, &a.Avatar, &a.RefreshToken,
		&a.Confirmed, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (username, email, password_hash, avatar)
		VALUES ($1, $2, $3, $4)
		RETURNING id, confirmed, created_at, updated_at
	`, a.Username, a.Email, a.Password, a.Avatar)

	if err := row.Scan(&a.ID, &a.Confirmed, &a.CreatedAt, &a.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (r *AccountRepository) UpdateAvatar(ctx context.Context, id string, url string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		UPDATE accounts SET avatar = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+accountColumns, url, id))
}

func (r *AccountRepository) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts SET refresh_token = $1, updated_at = now()
		WHERE id = $2
	`, token, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SetConfirmed(ctx context.Context, email string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts SET confirmed = TRUE, updated_at = now()
		WHERE email = $1
	`, email)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

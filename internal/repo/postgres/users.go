package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at, deleted_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	var out user.User

	err := r.prom.ObserveDB("users.create", func() error {
		return scanUser(r.pool.QueryRow(
			ctx,
			`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+userColumns,
			u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
		), &out)
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return out, nil
}

// ExistsByEmail counts soft-deleted rows too; the unique index does.
func (r *UsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool

	err := r.prom.ObserveDB("users.exists_by_email", func() error {
		return r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	})

	return exists, err
}

func (r *UsersRepo) GetActiveByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB("users.get_active_by_email", func() error {
		return scanUser(r.pool.QueryRow(
			ctx,
			`SELECT `+userColumns+`
			 FROM users
			 WHERE email = $1 AND deleted_at IS NULL`,
			email,
		), &u)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, id string, p user.Patch) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB("users.update", func() error {
		return scanUser(r.pool.QueryRow(
			ctx,
			`UPDATE users
			 SET name = COALESCE($2, name),
			     email = COALESCE($3, email),
			     password_hash = COALESCE($4, password_hash),
			     updated_at = NOW()
			 WHERE id = $1 AND deleted_at IS NULL
			 RETURNING `+userColumns,
			id, p.Name, p.Email, p.PasswordHash,
		), &u)
	})

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return user.User{}, user.ErrNotFound
		case isUniqueViolation(err):
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	var tag pgconn.CommandTag

	err := r.prom.ObserveDB("users.soft_delete", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `
			UPDATE users
			SET deleted_at = $2, updated_at = $2
			WHERE id = $1 AND deleted_at IS NULL
		`, id, at)
		return err
	})

	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DeletedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

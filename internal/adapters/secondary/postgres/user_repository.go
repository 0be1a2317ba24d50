package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/lab-dashboard-backend/internal/core/domain"
	apperrors "github.com/lorrc/lab-dashboard-backend/internal/core/errors"
	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

const uniqueViolationCode = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
INSERT INTO users (id, full_name, email, hashed_password, role, created_at, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, full_name, email, hashed_password, role, created_at, is_active
`

	row := r.pool.QueryRow(ctx, query,
		user.ID, user.FullName, user.Email, user.HashedPassword,
		string(user.Role), user.CreatedAt, user.IsActive,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.ErrUserExists
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
SELECT id, full_name, email, hashed_password, role, created_at, is_active
FROM users
WHERE email = $1
`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
SELECT id, full_name, email, hashed_password, role, created_at, is_active
FROM users
WHERE id = $1
`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.HashedPassword,
		&role, &user.CreatedAt, &user.IsActive); err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}

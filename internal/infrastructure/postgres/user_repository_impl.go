package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/secure-users-api/internal/domain/entity"
	"github.com/oksasatya/secure-users-api/internal/domain/repository"
)

const pgUniqueViolation = "23505"

const userSelectColumns = `id, name, email, phone, address, city, country, created_at, updated_at`

// touchUpdatedAt moves updated_at forward on the database clock, the same clock that
// stamped created_at, and always past its previous value.
const touchUpdatedAt = `GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')`

const (
	sqlListUsers = `
		SELECT ` + userSelectColumns + `
		FROM users
		ORDER BY id ASC`

	sqlGetUserByID = `
		SELECT ` + userSelectColumns + `
		FROM users
		WHERE id = $1`

	sqlGetUserByEmail = `
		SELECT ` + userSelectColumns + `
		FROM users
		WHERE email = $1`

	sqlInsertUser = `
		INSERT INTO users (name, email, phone, address, city, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	sqlUpdateUser = `
		UPDATE users
		SET name = $1, email = $2, phone = $3, address = $4, city = $5, country = $6,
			updated_at = ` + touchUpdatedAt + `
		WHERE id = $7
		RETURNING created_at, updated_at`

	sqlDeleteUser = `DELETE FROM users WHERE id = $1`
)

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, sqlListUsers)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := scanUser(rows, &u); err != nil {
			return nil, mapError(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	if err := scanUser(r.db.QueryRow(ctx, sqlGetUserByID, id), u); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}
	if err := scanUser(r.db.QueryRow(ctx, sqlGetUserByEmail, email), u); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, sqlInsertUser, u.Name, u.Email, u.Phone, u.Address, u.City, u.Country)
	return mapError(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, sqlUpdateUser,
		u.Name, u.Email, u.Phone, u.Address, u.City, u.Country, u.ID)
	return mapError(row.Scan(&u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) Patch(ctx context.Context, id int64, changes repository.Changes) (*entity.User, error) {
	query, args, err := buildPatchQuery(id, changes)
	if err != nil {
		return nil, err
	}
	u := &entity.User{}
	if err := scanUser(r.db.QueryRow(ctx, query, args...), u); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, sqlDeleteUser, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner, u *entity.User) error {
	return s.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.City, &u.Country, &u.CreatedAt, &u.UpdatedAt)
}

// mapError converts driver errors into repository sentinels. The unique index on
// email is the only unique constraint besides the primary key.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)

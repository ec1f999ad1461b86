package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new user repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// creates the users table if it doesn't exist
func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.db.Exec(ctx, queryCreateTable)
	return err
}

func (r *Repository) Create(ctx context.Context, in NewUser) (*User, error) {
	row := r.db.QueryRow(
		ctx,
		queryCreate,
		in.Username,
		in.PasswordHash,
		in.ExpiryDate,
		in.DailyQuota,
		in.LastUsageDate,
	)

	return scanUser(row)
}

// finds a user by their ID
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryFindByID, id))
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryFindByUsername, username))
}

// lists every user, newest first
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, queryList)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	users := []User{}

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}

		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) UpdateActive(ctx context.Context, id string, active bool) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryUpdateActive, active, id))
}

func (r *Repository) UpdatePassword(ctx context.Context, id, passwordHash string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryUpdatePassword, passwordHash, id))
}

func (r *Repository) UpdateQuota(ctx context.Context, id string, quota int) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryUpdateQuota, quota, id))
}

// overwrites the usage counter and its date
func (r *Repository) UpdateUsage(ctx context.Context, id string, count int, date string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryUpdateUsage, count, date, id))
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, queryDelete, id)
	if err != nil {
		return mapPgErr(err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.IsActive,
		&user.ExpiryDate,
		&user.CreatedAt,
		&user.DailyQuota,
		&user.UsageCount,
		&user.LastUsageDate,
		&user.Version,
	)

	if err != nil {
		return nil, mapPgErr(err)
	}

	return &user, nil
}

func mapPgErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrUsernameTaken
		case "22P02":
			// malformed uuid in a lookup
			return ErrNotFound
		}
	}

	return err
}

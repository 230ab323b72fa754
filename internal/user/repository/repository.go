package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/dlcaspar/apt-journal/backend/internal/common/db"
	"github.com/dlcaspar/apt-journal/backend/internal/user/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

// Repository takes a db.Querier per call so the same queries run against the
// pool or inside a caller-owned transaction.
type Repository interface {
	Create(ctx context.Context, q db.Querier, user domain.User) error
	FindByUsername(ctx context.Context, q db.Querier, username string) (domain.User, error)
	Exists(ctx context.Context, q db.Querier, username string) (bool, error)
	ListUsernames(ctx context.Context, q db.Querier) ([]string, error)
	Delete(ctx context.Context, q db.Querier, username string) error
}

type PgRepository struct{}

func NewPgRepository() *PgRepository {
	return &PgRepository{}
}

func (r *PgRepository) Create(ctx context.Context, q db.Querier, user domain.User) error {
	start := time.Now()
	_, err := q.Exec(
		ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2)`,
		user.Username,
		user.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameAlreadyExists
		}
	}
	return db.HandleExecError(err, "create user", "users", start)
}

func (r *PgRepository) FindByUsername(ctx context.Context, q db.Querier, username string) (domain.User, error) {
	start := time.Now()
	row := q.QueryRow(
		ctx,
		`SELECT username, password, created_at, updated_at FROM users WHERE username = $1`,
		username,
	)

	var user domain.User
	err := row.Scan(&user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return domain.User{}, db.HandleQueryError(err, ErrUserNotFound, "find user", "users", start)
	}

	return user, nil
}

// Exists is the per-transaction account re-check backing the ExpiredUser
// rejection.
func (r *PgRepository) Exists(ctx context.Context, q db.Querier, username string) (bool, error) {
	start := time.Now()
	var one int
	err := q.QueryRow(ctx, `SELECT 1 FROM users WHERE username = $1`, username).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, db.HandleQueryError(err, err, "check user exists", "users", start)
	}
	return true, nil
}

func (r *PgRepository) ListUsernames(ctx context.Context, q db.Querier) ([]string, error) {
	start := time.Now()
	rows, err := q.Query(ctx, `SELECT username FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, db.HandleQueryError(err, err, "list usernames", "users", start)
	}
	defer rows.Close()

	usernames := make([]string, 0)
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list usernames: %w", err)
	}

	return usernames, nil
}

// Delete removes the account row; the entries foreign key cascades and takes
// every owned entry with it.
func (r *PgRepository) Delete(ctx context.Context, q db.Querier, username string) error {
	start := time.Now()
	tag, err := q.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return db.HandleExecError(err, "delete user", "users", start)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return db.HandleExecError(nil, "delete user", "users", start)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dlcaspar/apt-journal/backend/internal/common/db"
	"github.com/dlcaspar/apt-journal/backend/internal/entry/domain"
)

var ErrEntryNotFound = errors.New("entry not found")

const entryColumns = `id, title, content, username, created_at, updated_at`

type Repository interface {
	Insert(ctx context.Context, q db.Querier, username, title, content string) (domain.Entry, error)
	FindByID(ctx context.Context, q db.Querier, id int64) (domain.Entry, error)
	ListByOwner(ctx context.Context, q db.Querier, username string) ([]domain.Summary, error)
	Update(ctx context.Context, q db.Querier, id int64, title, content string) (domain.Entry, error)
	Delete(ctx context.Context, q db.Querier, id int64) error
}

type PgRepository struct{}

func NewPgRepository() *PgRepository {
	return &PgRepository{}
}

func (r *PgRepository) Insert(ctx context.Context, q db.Querier, username, title, content string) (domain.Entry, error) {
	start := time.Now()
	row := q.QueryRow(
		ctx,
		`INSERT INTO entries (title, content, username) VALUES ($1, $2, $3)
		 RETURNING `+entryColumns,
		title,
		content,
		username,
	)

	entry, err := scanEntry(row)
	if err != nil {
		return domain.Entry{}, db.HandleQueryError(err, err, "insert entry", "entries", start)
	}
	return entry, db.HandleQueryError(nil, nil, "insert entry", "entries", start)
}

func (r *PgRepository) FindByID(ctx context.Context, q db.Querier, id int64) (domain.Entry, error) {
	start := time.Now()
	row := q.QueryRow(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)

	entry, err := scanEntry(row)
	if err != nil {
		return domain.Entry{}, db.HandleQueryError(err, ErrEntryNotFound, "find entry", "entries", start)
	}
	return entry, nil
}

// ListByOwner returns the index projection in insertion order; ids are
// monotonic so ORDER BY id is creation order.
func (r *PgRepository) ListByOwner(ctx context.Context, q db.Querier, username string) ([]domain.Summary, error) {
	start := time.Now()
	rows, err := q.Query(
		ctx,
		`SELECT id, title, updated_at FROM entries WHERE username = $1 ORDER BY id ASC`,
		username,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, err, "list entries", "entries", start)
	}
	defer rows.Close()

	summaries := make([]domain.Summary, 0)
	for rows.Next() {
		var s domain.Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return summaries, nil
}

func (r *PgRepository) Update(ctx context.Context, q db.Querier, id int64, title, content string) (domain.Entry, error) {
	start := time.Now()
	row := q.QueryRow(
		ctx,
		`UPDATE entries SET title = $2, content = $3, updated_at = now() WHERE id = $1
		 RETURNING `+entryColumns,
		id,
		title,
		content,
	)

	entry, err := scanEntry(row)
	if err != nil {
		return domain.Entry{}, db.HandleQueryError(err, ErrEntryNotFound, "update entry", "entries", start)
	}
	return entry, nil
}

func (r *PgRepository) Delete(ctx context.Context, q db.Querier, id int64) error {
	start := time.Now()
	tag, err := q.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return db.HandleExecError(err, "delete entry", "entries", start)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return db.HandleExecError(nil, "delete entry", "entries", start)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(&e.ID, &e.Title, &e.Content, &e.Username, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}

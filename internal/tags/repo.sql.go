package tags

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new tag for the user.
func (r *Repository) Create(ctx context.Context, userID int64, name string) (Tag, error) {
	var tag Tag
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tags (user_id, name) VALUES ($1, $2) RETURNING id, user_id, name, created_at`,
		userID, name).Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Tag{}, fmt.Errorf("%w: tag %s already exists", shared.ErrTagExists, name)
		}
		return Tag{}, err
	}
	return tag, nil
}

// ListByUser returns the user's tags ordered by id.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Tag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name, created_at FROM tags WHERE user_id = $1 ORDER BY id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Tag
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the user's tag. Deleting a foreign or absent tag reports
// shared.ErrTagNotFound without revealing which.
func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM tags WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: tag not found with id %d", shared.ErrTagNotFound, id)
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)

package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/RianNegreiros/ai-powered-task-app/internal/platform/db"
	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

// Repository implements RepositoryPort using PostgreSQL. Task rows and
// their tag links are mutated inside a single transaction.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskColumns = `id, user_id, title, description, priority, due_date, completed, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, task Task, tagIDs []int64) (Task, error) {
	var created Task
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO tasks (user_id, title, description, priority, due_date)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING `+taskColumns,
			task.UserID, task.Title, task.Description, task.Priority, task.DueDate)
		var err error
		created, err = scanTask(row)
		if err != nil {
			return err
		}
		created.Tags, err = linkTags(ctx, tx, created.UserID, created.ID, tagIDs)
		return err
	})
	if err != nil {
		return Task{}, err
	}
	return created, nil
}

func (r *Repository) FindByID(ctx context.Context, userID, id int64) (Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Task{}, fmt.Errorf("%w: id %d", shared.ErrTaskNotFound, id)
		}
		return Task{}, err
	}
	task.Tags, err = r.tagsFor(ctx, task.ID)
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

// ListByUser loads the task rows and their tag links with two concurrent
// queries and stitches them together afterwards.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Task, error) {
	var (
		tasks []Task
		links map[int64][]TagSummary
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY id`,
			userID)
		if err != nil {
			return fmt.Errorf("tasks: list: %w", err)
		}
		defer rows.Close()

		tasks = make([]Task, 0)
		for rows.Next() {
			task, err := scanTask(rows)
			if err != nil {
				return err
			}
			task.Tags = []TagSummary{}
			tasks = append(tasks, task)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("tasks: list: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT tt.task_id, t.id, t.name
			 FROM task_tags tt JOIN tags t ON t.id = tt.tag_id
			 WHERE tt.task_id IN (SELECT id FROM tasks WHERE user_id = $1)
			 ORDER BY t.id`,
			userID)
		if err != nil {
			return fmt.Errorf("tasks: list links: %w", err)
		}
		defer rows.Close()

		links = make(map[int64][]TagSummary)
		for rows.Next() {
			var taskID int64
			var tag TagSummary
			if err := rows.Scan(&taskID, &tag.ID, &tag.Name); err != nil {
				return fmt.Errorf("tasks: scan link: %w", err)
			}
			links[taskID] = append(links[taskID], tag)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("tasks: list links: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range tasks {
		if tags, ok := links[tasks[i].ID]; ok {
			tasks[i].Tags = tags
		}
	}
	return tasks, nil
}

func (r *Repository) Update(ctx context.Context, task Task, tags TagUpdate) (Task, error) {
	var updated Task
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`UPDATE tasks
			 SET title = $1, description = $2, priority = $3, due_date = $4, updated_at = now()
			 WHERE id = $5 AND user_id = $6
			 RETURNING `+taskColumns,
			task.Title, task.Description, task.Priority, task.DueDate, task.ID, task.UserID)
		var err error
		updated, err = scanTask(row)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("%w: id %d", shared.ErrTaskNotFound, task.ID)
			}
			return err
		}
		if tags.Replace {
			if _, err := tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, updated.ID); err != nil {
				return fmt.Errorf("tasks: clear links: %w", err)
			}
			updated.Tags, err = linkTags(ctx, tx, updated.UserID, updated.ID, tags.IDs)
			return err
		}
		updated.Tags, err = tagsForTx(ctx, tx, updated.ID)
		return err
	})
	if err != nil {
		return Task{}, err
	}
	return updated, nil
}

func (r *Repository) ToggleCompleted(ctx context.Context, userID, id int64) (Task, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE tasks SET completed = NOT completed, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, userID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Task{}, fmt.Errorf("%w: id %d", shared.ErrTaskNotFound, id)
		}
		return Task{}, err
	}
	task.Tags, err = r.tagsFor(ctx, task.ID)
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("tasks: delete: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrTaskNotFound, id)
	}
	return nil
}

func (r *Repository) ListDueBetween(ctx context.Context, from, to time.Time) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE completed = false AND due_date IS NOT NULL AND due_date >= $1 AND due_date < $2
		 ORDER BY due_date`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("tasks: due scan: %w", err)
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// linkTags inserts tag links after verifying every tag belongs to the
// task owner. Unknown or foreign tag ids abort the transaction.
func linkTags(ctx context.Context, tx pgx.Tx, userID, taskID int64, tagIDs []int64) ([]TagSummary, error) {
	if len(tagIDs) == 0 {
		return []TagSummary{}, nil
	}

	rows, err := tx.Query(ctx,
		`SELECT id, name FROM tags WHERE user_id = $1 AND id = ANY($2) ORDER BY id`,
		userID, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("tasks: resolve tags: %w", err)
	}
	defer rows.Close()

	resolved := make([]TagSummary, 0, len(tagIDs))
	seen := make(map[int64]bool, len(tagIDs))
	for rows.Next() {
		var tag TagSummary
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("tasks: scan tag: %w", err)
		}
		resolved = append(resolved, tag)
		seen[tag.ID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tasks: resolve tags: %w", err)
	}
	for _, id := range tagIDs {
		if !seen[id] {
			return nil, fmt.Errorf("%w: tag does not belong to user or does not exist", shared.ErrTagNotFound)
		}
	}

	for _, tag := range resolved {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			taskID, tag.ID); err != nil {
			return nil, fmt.Errorf("tasks: link tag: %w", err)
		}
	}
	return resolved, nil
}

func (r *Repository) tagsFor(ctx context.Context, taskID int64) ([]TagSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.name FROM task_tags tt JOIN tags t ON t.id = tt.tag_id
		 WHERE tt.task_id = $1 ORDER BY t.id`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("tasks: load tags: %w", err)
	}
	defer rows.Close()
	return collectTags(rows)
}

func tagsForTx(ctx context.Context, tx pgx.Tx, taskID int64) ([]TagSummary, error) {
	rows, err := tx.Query(ctx,
		`SELECT t.id, t.name FROM task_tags tt JOIN tags t ON t.id = tt.tag_id
		 WHERE tt.task_id = $1 ORDER BY t.id`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("tasks: load tags: %w", err)
	}
	defer rows.Close()
	return collectTags(rows)
}

func collectTags(rows pgx.Rows) ([]TagSummary, error) {
	tags := make([]TagSummary, 0)
	for rows.Next() {
		var tag TagSummary
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("tasks: scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func scanTask(row pgx.Row) (Task, error) {
	var task Task
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Priority,
		&task.DueDate, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, shared.ErrNotFound
		}
		return Task{}, fmt.Errorf("tasks: scan: %w", err)
	}
	return task, nil
}

var _ RepositoryPort = (*Repository)(nil)

package tasks

import (
	"context"
	"time"
)

// TagUpdate carries the tag-link mutation for an update. When Replace is
// false the existing links are kept untouched.
type TagUpdate struct {
	Replace bool
	IDs     []int64
}

// RepositoryPort abstracts task persistence.
type RepositoryPort interface {
	Create(ctx context.Context, task Task, tagIDs []int64) (Task, error)
	FindByID(ctx context.Context, userID, id int64) (Task, error)
	ListByUser(ctx context.Context, userID int64) ([]Task, error)
	Update(ctx context.Context, task Task, tags TagUpdate) (Task, error)
	ToggleCompleted(ctx context.Context, userID, id int64) (Task, error)
	Delete(ctx context.Context, userID, id int64) error
	ListDueBetween(ctx context.Context, from, to time.Time) ([]Task, error)
}

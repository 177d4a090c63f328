package tags

import "context"

// RepositoryPort defines data access methods for tags. Every operation is
// scoped to the owning user; another user's tags are invisible.
type RepositoryPort interface {
	Create(ctx context.Context, userID int64, name string) (Tag, error)
	ListByUser(ctx context.Context, userID int64) ([]Tag, error)
	Delete(ctx context.Context, userID, id int64) error
}

package tags

import (
	"context"
	"log/slog"
)

// Service handles tag business logic.
type Service struct {
	repo   RepositoryPort
	cache  *ListCache
	logger *slog.Logger
}

// NewService builds a Service instance. cache may be nil.
func NewService(repo RepositoryPort, cache *ListCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// CreateTag inserts a tag for the user and busts the cached list.
func (s *Service) CreateTag(ctx context.Context, userID int64, name string) (Tag, error) {
	tag, err := s.repo.Create(ctx, userID, name)
	if err != nil {
		return Tag{}, err
	}
	s.cache.Invalidate(ctx, userID)
	return tag, nil
}

// ListTags returns the user's tags, served from cache when warm.
func (s *Service) ListTags(ctx context.Context, userID int64) ([]Tag, error) {
	return s.cache.Fetch(ctx, userID, func(ctx context.Context) ([]Tag, error) {
		return s.repo.ListByUser(ctx, userID)
	})
}

// DeleteTag removes the user's tag and busts the cached list.
func (s *Service) DeleteTag(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

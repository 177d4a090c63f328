package tasks

import (
	"context"
	"log/slog"
	"time"
)

// CreateInput is the validated payload for a new task.
type CreateInput struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	TagIDs      []int64
}

// UpdateInput is the validated payload for a full task update. Tags
// distinguishes "leave links alone" from "replace with this set".
type UpdateInput struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Tags        TagUpdate
}

// Service owns task business rules on top of the repository.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateTask(ctx context.Context, userID int64, input CreateInput) (Task, error) {
	task := Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	created, err := s.repo.Create(ctx, task, input.TagIDs)
	if err != nil {
		return Task{}, err
	}
	s.logger.Info("task created",
		slog.Int64("task_id", created.ID),
		slog.Int64("user_id", userID),
		slog.String("priority", string(created.Priority)))
	return created, nil
}

func (s *Service) ListTasks(ctx context.Context, userID int64) ([]Task, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) GetTask(ctx context.Context, userID, id int64) (Task, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *Service) UpdateTask(ctx context.Context, userID, id int64, input UpdateInput) (Task, error) {
	task := Task{
		ID:          id,
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	return s.repo.Update(ctx, task, input.Tags)
}

func (s *Service) ToggleCompleted(ctx context.Context, userID, id int64) (Task, error) {
	return s.repo.ToggleCompleted(ctx, userID, id)
}

func (s *Service) DeleteTask(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", slog.Int64("task_id", id), slog.Int64("user_id", userID))
	return nil
}

// DueBetween lists incomplete tasks whose deadline falls inside the
// window. Used by the nightly due scan.
func (s *Service) DueBetween(ctx context.Context, from, to time.Time) ([]Task, error) {
	return s.repo.ListDueBetween(ctx, from, to)
}

package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/RianNegreiros/ai-powered-task-app/internal/tasks"
)

type stubTaskRepo struct {
	due     []tasks.Task
	err     error
	gotFrom time.Time
	gotTo   time.Time
}

func (s *stubTaskRepo) Create(ctx context.Context, task tasks.Task, tagIDs []int64) (tasks.Task, error) {
	return tasks.Task{}, errors.New("not implemented")
}

func (s *stubTaskRepo) FindByID(ctx context.Context, userID, id int64) (tasks.Task, error) {
	return tasks.Task{}, errors.New("not implemented")
}

func (s *stubTaskRepo) ListByUser(ctx context.Context, userID int64) ([]tasks.Task, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTaskRepo) Update(ctx context.Context, task tasks.Task, tags tasks.TagUpdate) (tasks.Task, error) {
	return tasks.Task{}, errors.New("not implemented")
}

func (s *stubTaskRepo) ToggleCompleted(ctx context.Context, userID, id int64) (tasks.Task, error) {
	return tasks.Task{}, errors.New("not implemented")
}

func (s *stubTaskRepo) Delete(ctx context.Context, userID, id int64) error {
	return errors.New("not implemented")
}

func (s *stubTaskRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]tasks.Task, error) {
	s.gotFrom = from
	s.gotTo = to
	return s.due, s.err
}

func TestDueScanHandle(t *testing.T) {
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	due := now.Add(3 * time.Hour)
	repo := &stubTaskRepo{due: []tasks.Task{{
		ID:       7,
		UserID:   1,
		Title:    "renew certificate",
		Priority: tasks.PriorityHigh,
		DueDate:  &due,
	}}}
	job := NewDueScanJob(tasks.NewService(repo, nil), nil, nil)
	job.clock = func() time.Time { return now }

	task, err := NewDueScanTask(24)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, now, repo.gotFrom)
	require.Equal(t, now.Add(24*time.Hour), repo.gotTo)
}

func TestDueScanDefaultHorizon(t *testing.T) {
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	repo := &stubTaskRepo{}
	job := NewDueScanJob(tasks.NewService(repo, nil), nil, nil)
	job.clock = func() time.Time { return now }

	task, err := NewDueScanTask(0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, now.Add(24*time.Hour), repo.gotTo)
}

func TestDueScanBadPayloadSkipsRetry(t *testing.T) {
	job := NewDueScanJob(tasks.NewService(&stubTaskRepo{}, nil), nil, nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskDueScan, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestDueScanPropagatesRepoError(t *testing.T) {
	repo := &stubTaskRepo{err: errors.New("db down")}
	job := NewDueScanJob(tasks.NewService(repo, nil), nil, nil)

	task, err := NewDueScanTask(24)
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))
}

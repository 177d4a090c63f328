package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/RianNegreiros/ai-powered-task-app/internal/jobs"
	"github.com/RianNegreiros/ai-powered-task-app/internal/tasks"
)

// DueScanJob walks incomplete tasks whose deadline falls inside the
// horizon and logs each hit so operators can act on them.
type DueScanJob struct {
	Service *tasks.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewDueScanJob initialises the due scan handler.
func NewDueScanJob(service *tasks.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *DueScanJob {
	return &DueScanJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the due scan logic.
func (j *DueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("due scan: handler not configured")
	}
	var payload DueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.HorizonHours <= 0 {
		payload.HorizonHours = 24
	}

	start := j.now()
	tracker := j.metrics().Track(TaskDueScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("horizon_hours", payload.HorizonHours))
	logger.Info("starting due scan")

	due, err := j.Service.DueBetween(ctx, start, start.Add(time.Duration(payload.HorizonHours)*time.Hour))
	if err != nil {
		resultErr = err
		logger.Error("scan failed", slog.Any("error", err))
		return resultErr
	}

	for _, task := range due {
		logger.Warn("task due soon",
			slog.Int64("task_id", task.ID),
			slog.Int64("user_id", task.UserID),
			slog.String("title", task.Title),
			slog.String("priority", string(task.Priority)),
			slog.Time("due_date", *task.DueDate),
		)
	}
	j.metrics().AddDueTasks(len(due))

	logger.Info("completed due scan",
		slog.Int("due", len(due)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *DueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDueScan))
	}
	return slog.Default().With(slog.String("job", TaskDueScan))
}

func (j *DueScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *DueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

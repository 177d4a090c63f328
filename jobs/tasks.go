package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDueScan is the task type for the nightly due-date scan.
	TaskDueScan = "tasks:due_scan"
)

// DueScanPayload controls how far ahead the scan looks.
type DueScanPayload struct {
	HorizonHours int `json:"horizonHours"`
}

// NewDueScanTask constructs an Asynq task for the due scan.
func NewDueScanTask(horizonHours int) (*asynq.Task, error) {
	data, err := json.Marshal(DueScanPayload{HorizonHours: horizonHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDueScan, data), nil
}

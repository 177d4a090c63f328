package tasks

import (
	"fmt"
	"time"
)

// Priority ranks how urgent a task is. The zero value means no priority
// was assigned.
type Priority string

const (
	PriorityNone     Priority = "none"
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority validates a wire-level priority string. An empty string
// maps to PriorityNone.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(s), nil
	case "":
		return PriorityNone, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// TagSummary is the tag projection embedded in task payloads.
type TagSummary struct {
	ID   int64
	Name string
}

// Task is a single todo item owned by one user. DueDate is nil when the
// task has no deadline.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Completed   bool
	Tags        []TagSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package tags

import "time"

// Tag is a user-owned label attachable to tasks.
type Tag struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}

package domain

import "time"

// Task is one intention a user has set. Tasks move through a soft state
// machine (pending → in_progress → completed, or → stuck → in_progress/
// completed) and are never physically deleted.
type Task struct {
	ID            TaskID
	UserID        UserID
	Description   string
	Category      TaskCategory
	Status        TaskStatus
	CreatedAt     Timestamp
	UpdatedAt     Timestamp
	ScheduledDate *time.Time
}

// ActiveStatuses are the statuses shown in the numbered task list and
// addressable by task update commands.
func ActiveStatuses() []TaskStatus {
	return []TaskStatus{StatusPending, StatusInProgress, StatusStuck}
}

// IsActive reports whether the task still appears in the user's list.
func (t *Task) IsActive() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress || t.Status == StatusStuck
}

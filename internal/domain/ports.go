package domain

import "context"

// UserStore defines user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id UserID) (*User, error)
	// ListActiveUsers returns every user with Active=true.
	ListActiveUsers(ctx context.Context) ([]*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// CheckInStore defines check-in persistence. Check-ins are append-only.
type CheckInStore interface {
	AppendCheckIn(ctx context.Context, c *CheckIn) error
	// LatestCheckIn returns the newest check-in for the user with the
	// given IsResponse flag, or nil if there is none.
	LatestCheckIn(ctx context.Context, userID UserID, isResponse bool) (*CheckIn, error)
	ListCheckIns(ctx context.Context, userID UserID, limit int) ([]*CheckIn, error)
}

// TaskStore defines task persistence.
type TaskStore interface {
	CreateTask(ctx context.Context, t *Task) error
	UpdateTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id TaskID) (*Task, error)
	// ListTasks returns the user's tasks filtered by status (nil means
	// all statuses), oldest first.
	ListTasks(ctx context.Context, userID UserID, statuses []TaskStatus) ([]*Task, error)
}

// ReminderLedger records which follow-up categories have already been
// sent for a prompt. Sent is checked before dispatch; Record is written
// only after a successful send.
type ReminderLedger interface {
	Sent(ctx context.Context, promptID CheckInID, category Category) (bool, error)
	Record(ctx context.Context, rec ReminderRecord) error
}

// Button is one interactive reply option. WhatsApp caps a message at
// three of them.
type Button struct {
	ID    string
	Title string
}

// MessageSender is the outbound messaging transport.
type MessageSender interface {
	SendText(ctx context.Context, account AccountID, to UserID, body string) error
	SendButtons(ctx context.Context, account AccountID, to UserID, body string, buttons []Button) error
}

// SentimentAnalyzer scores free text between -1 (negative) and 1 (positive).
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (float64, error)
}

// Transcriber converts a voice note into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

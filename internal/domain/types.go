package domain

import "time"

type UserID string
type CheckInID string
type TaskID string

// AccountID selects which of the two configured WhatsApp Business
// identities owns a conversation.
type AccountID int

const (
	AccountPrimary   AccountID = 1
	AccountSecondary AccountID = 2
)

// UserState tracks where a conversation currently is. Most of the time
// it is idle; pressing a planning button moves the user into
// StatePlanning so their next free-text message is read as a task list.
type UserState string

const (
	StateIdle     UserState = ""
	StatePlanning UserState = "planning"
)

type TrackingMode string

const (
	TrackingAI    TrackingMode = "ai"
	TrackingHuman TrackingMode = "human"
)

type PlanType string

const (
	PlanDaily  PlanType = "daily"
	PlanWeekly PlanType = "weekly"
)

type CheckInKind string

const (
	CheckInDaily  CheckInKind = "daily"
	CheckInWeekly CheckInKind = "weekly"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusStuck      TaskStatus = "stuck"
)

type TaskCategory string

const (
	CategoryWork     TaskCategory = "work"
	CategoryPersonal TaskCategory = "personal"
	CategoryHealth   TaskCategory = "health"
	CategoryOther    TaskCategory = "other"
)

type Timestamp = time.Time

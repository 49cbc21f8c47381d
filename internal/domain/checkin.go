package domain

// CheckIn is one half of a prompt/response pair. The system writes a
// record with IsResponse=false when it prompts the user; the user's
// reply is stored as a second record with IsResponse=true. Records are
// immutable once written.
type CheckIn struct {
	ID         CheckInID
	UserID     UserID
	Kind       CheckInKind
	IsResponse bool
	Text       string
	// Sentiment is nil until the response has been classified.
	Sentiment *float64
	CreatedAt Timestamp
}

// ReminderRecord marks that a follow-up of the given category has been
// sent for a prompt. It is the idempotency key that keeps overlapping
// cron runs from double-sending: checked before dispatch, written after
// a successful send.
type ReminderRecord struct {
	PromptID CheckInID
	Category Category
	UserID   UserID
	SentAt   Timestamp
}

// Key returns the document key for a reminder record.
func (r ReminderRecord) Key() string {
	return string(r.PromptID) + "_" + string(r.Category)
}

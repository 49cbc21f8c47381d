package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/attune-labs/attune-agent/internal/domain"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = fmt.Errorf("not found")

// Store implements every storage port (UserStore, CheckInStore,
// TaskStore, ReminderLedger) on one Firestore client.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) usersCol() *firestore.CollectionRef {
	return s.client.Collection("users")
}

func (s *Store) checkinsCol() *firestore.CollectionRef {
	return s.client.Collection("checkins")
}

func (s *Store) tasksCol() *firestore.CollectionRef {
	return s.client.Collection("tasks")
}

func (s *Store) remindersCol() *firestore.CollectionRef {
	return s.client.Collection("reminders")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type userDoc struct {
	Name       string    `firestore:"name"`
	Mode       string    `firestore:"mode"`
	PlanType   string    `firestore:"plan_type"`
	AccountID  int       `firestore:"account_id"`
	State      string    `firestore:"state"`
	Active     bool      `firestore:"active"`
	CreatedAt  time.Time `firestore:"created_at"`
	LastActive time.Time `firestore:"last_active"`
}

type checkinDoc struct {
	UserID     string    `firestore:"user_id"`
	Kind       string    `firestore:"kind"`
	IsResponse bool      `firestore:"is_response"`
	Text       string    `firestore:"text"`
	Sentiment  *float64  `firestore:"sentiment"`
	CreatedAt  time.Time `firestore:"created_at"`
}

type taskDoc struct {
	UserID        string     `firestore:"user_id"`
	Description   string     `firestore:"description"`
	Category      string     `firestore:"category"`
	Status        string     `firestore:"status"`
	CreatedAt     time.Time  `firestore:"created_at"`
	UpdatedAt     time.Time  `firestore:"updated_at"`
	ScheduledDate *time.Time `firestore:"scheduled_date"`
}

type reminderDoc struct {
	PromptID string    `firestore:"prompt_id"`
	Category string    `firestore:"category"`
	UserID   string    `firestore:"user_id"`
	SentAt   time.Time `firestore:"sent_at"`
}

// ─────────────────────────────────────────
// UserStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	doc := userDoc{
		Name:       user.Name,
		Mode:       string(user.Mode),
		PlanType:   string(user.PlanType),
		AccountID:  int(user.AccountID),
		State:      string(user.State),
		Active:     user.Active,
		CreatedAt:  user.CreatedAt,
		LastActive: user.LastActive,
	}

	if _, err := s.usersCol().Doc(string(user.ID)).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore CreateUser: %w", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	doc := map[string]interface{}{
		"name":        user.Name,
		"mode":        string(user.Mode),
		"plan_type":   string(user.PlanType),
		"account_id":  int(user.AccountID),
		"state":       string(user.State),
		"active":      user.Active,
		"last_active": user.LastActive,
	}

	if _, err := s.usersCol().Doc(string(user.ID)).Set(ctx, doc, firestore.MergeAll); err != nil {
		return fmt.Errorf("firestore UpdateUser: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	snap, err := s.usersCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetUser: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetUser decode: %w", err)
	}

	return toUser(id, doc), nil
}

func (s *Store) ListActiveUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listUsers(ctx, s.usersCol().Where("active", "==", true))
}

func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listUsers(ctx, s.usersCol().Query)
}

func (s *Store) listUsers(ctx context.Context, q firestore.Query) ([]*domain.User, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.User
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore listUsers: %w", err)
		}

		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode userDoc: %w", err)
		}
		out = append(out, toUser(domain.UserID(snap.Ref.ID), doc))
	}
	return out, nil
}

func toUser(id domain.UserID, doc userDoc) *domain.User {
	return &domain.User{
		ID:         id,
		Name:       doc.Name,
		Mode:       domain.TrackingMode(doc.Mode),
		PlanType:   domain.PlanType(doc.PlanType),
		AccountID:  domain.AccountID(doc.AccountID),
		State:      domain.UserState(doc.State),
		Active:     doc.Active,
		CreatedAt:  doc.CreatedAt,
		LastActive: doc.LastActive,
	}
}

// ─────────────────────────────────────────
// CheckInStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendCheckIn(ctx context.Context, c *domain.CheckIn) error {
	doc := checkinDoc{
		UserID:     string(c.UserID),
		Kind:       string(c.Kind),
		IsResponse: c.IsResponse,
		Text:       c.Text,
		Sentiment:  c.Sentiment,
		CreatedAt:  c.CreatedAt,
	}

	if _, err := s.checkinsCol().Doc(string(c.ID)).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore AppendCheckIn: %w", err)
	}
	return nil
}

func (s *Store) LatestCheckIn(ctx context.Context, userID domain.UserID, isResponse bool) (*domain.CheckIn, error) {
	q := s.checkinsCol().
		Where("user_id", "==", string(userID)).
		Where("is_response", "==", isResponse).
		OrderBy("created_at", firestore.Desc).
		Limit(1)

	iter := q.Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("firestore LatestCheckIn: %w", err)
	}

	var doc checkinDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode checkinDoc: %w", err)
	}
	return toCheckIn(domain.CheckInID(snap.Ref.ID), doc), nil
}

func (s *Store) ListCheckIns(ctx context.Context, userID domain.UserID, limit int) ([]*domain.CheckIn, error) {
	q := s.checkinsCol().
		Where("user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.CheckIn
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListCheckIns: %w", err)
		}

		var doc checkinDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode checkinDoc: %w", err)
		}
		out = append(out, toCheckIn(domain.CheckInID(snap.Ref.ID), doc))
	}
	return out, nil
}

func toCheckIn(id domain.CheckInID, doc checkinDoc) *domain.CheckIn {
	return &domain.CheckIn{
		ID:         id,
		UserID:     domain.UserID(doc.UserID),
		Kind:       domain.CheckInKind(doc.Kind),
		IsResponse: doc.IsResponse,
		Text:       doc.Text,
		Sentiment:  doc.Sentiment,
		CreatedAt:  doc.CreatedAt,
	}
}

// ─────────────────────────────────────────
// TaskStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	doc := taskDoc{
		UserID:        string(t.UserID),
		Description:   t.Description,
		Category:      string(t.Category),
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		ScheduledDate: t.ScheduledDate,
	}

	if _, err := s.tasksCol().Doc(string(t.ID)).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore CreateTask: %w", err)
	}
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, t *domain.Task) error {
	doc := map[string]interface{}{
		"description":    t.Description,
		"category":       string(t.Category),
		"status":         string(t.Status),
		"updated_at":     t.UpdatedAt,
		"scheduled_date": t.ScheduledDate,
	}

	if _, err := s.tasksCol().Doc(string(t.ID)).Set(ctx, doc, firestore.MergeAll); err != nil {
		return fmt.Errorf("firestore UpdateTask: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	snap, err := s.tasksCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetTask: %w", err)
	}

	var doc taskDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetTask decode: %w", err)
	}
	return toTask(id, doc), nil
}

func (s *Store) ListTasks(ctx context.Context, userID domain.UserID, statuses []domain.TaskStatus) ([]*domain.Task, error) {
	q := s.tasksCol().
		Where("user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Asc)

	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, st := range statuses {
			values = append(values, string(st))
		}
		q = q.Where("status", "in", values)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Task
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListTasks: %w", err)
		}

		var doc taskDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode taskDoc: %w", err)
		}
		out = append(out, toTask(domain.TaskID(snap.Ref.ID), doc))
	}
	return out, nil
}

func toTask(id domain.TaskID, doc taskDoc) *domain.Task {
	return &domain.Task{
		ID:            id,
		UserID:        domain.UserID(doc.UserID),
		Description:   doc.Description,
		Category:      domain.TaskCategory(doc.Category),
		Status:        domain.TaskStatus(doc.Status),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		ScheduledDate: doc.ScheduledDate,
	}
}

// ─────────────────────────────────────────
// ReminderLedger implementation
// ─────────────────────────────────────────

func (s *Store) Sent(ctx context.Context, promptID domain.CheckInID, category domain.Category) (bool, error) {
	key := domain.ReminderRecord{PromptID: promptID, Category: category}.Key()

	_, err := s.remindersCol().Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("firestore Sent: %w", err)
	}
	return true, nil
}

func (s *Store) Record(ctx context.Context, rec domain.ReminderRecord) error {
	doc := reminderDoc{
		PromptID: string(rec.PromptID),
		Category: string(rec.Category),
		UserID:   string(rec.UserID),
		SentAt:   rec.SentAt,
	}

	if _, err := s.remindersCol().Doc(rec.Key()).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Record: %w", err)
	}
	return nil
}

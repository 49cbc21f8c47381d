package report_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/attune-labs/attune-agent/internal/adapters/storage/memory"
	"github.com/attune-labs/attune-agent/internal/app/report"
	"github.com/attune-labs/attune-agent/internal/domain"
)

type recordingSender struct {
	texts   map[domain.UserID][]string
	failFor map[domain.UserID]bool
}

func newRecordingSender() *recordingSender {
	return &recordingSender{
		texts:   make(map[domain.UserID][]string),
		failFor: make(map[domain.UserID]bool),
	}
}

func (r *recordingSender) SendText(_ context.Context, _ domain.AccountID, to domain.UserID, body string) error {
	if r.failFor[to] {
		return errors.New("transport down")
	}
	r.texts[to] = append(r.texts[to], body)
	return nil
}

func (r *recordingSender) SendButtons(_ context.Context, _ domain.AccountID, to domain.UserID, body string, _ []domain.Button) error {
	return r.SendText(context.Background(), 0, to, body)
}

func addUser(t *testing.T, store *memory.UserStore, id domain.UserID, active bool) {
	t.Helper()

	err := store.CreateUser(context.Background(), &domain.User{
		ID:        id,
		Name:      "User " + string(id),
		PlanType:  domain.PlanDaily,
		AccountID: domain.AccountPrimary,
		Active:    active,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
}

func TestSendWeeklySummarizesTheWeek(t *testing.T) {
	users := memory.NewUserStore()
	checks := memory.NewCheckInStore()
	tasks := memory.NewTaskStore()
	sender := newRecordingSender()
	svc := report.NewService(users, checks, tasks, sender)
	ctx := context.Background()

	addUser(t, users, "111", true)
	addUser(t, users, "222", false) // inactive, no report

	now := time.Now()
	for _, task := range []*domain.Task{
		{ID: "t1", UserID: "111", Description: "a", Status: domain.StatusCompleted,
			CreatedAt: now.Add(-6 * 24 * time.Hour), UpdatedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "t2", UserID: "111", Description: "b", Status: domain.StatusCompleted,
			CreatedAt: now.Add(-30 * 24 * time.Hour), UpdatedAt: now.Add(-20 * 24 * time.Hour)}, // old, not counted
		{ID: "t3", UserID: "111", Description: "c", Status: domain.StatusPending,
			CreatedAt: now.Add(-1 * 24 * time.Hour), UpdatedAt: now.Add(-1 * 24 * time.Hour)},
	} {
		if err := tasks.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	score := 0.9
	if err := checks.AppendCheckIn(ctx, &domain.CheckIn{
		ID: "r1", UserID: "111", Kind: domain.CheckInDaily, IsResponse: true,
		Sentiment: &score, CreatedAt: now.Add(-3 * 24 * time.Hour),
	}); err != nil {
		t.Fatalf("AppendCheckIn: %v", err)
	}

	sent, err := svc.SendWeekly(ctx)
	if err != nil {
		t.Fatalf("SendWeekly: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 report, got %d", sent)
	}
	if len(sender.texts["222"]) != 0 {
		t.Fatal("inactive user must not get a report")
	}

	msgs := sender.texts["111"]
	if len(msgs) != 1 {
		t.Fatalf("expected one report message, got %d", len(msgs))
	}
	msg := msgs[0]
	if !strings.Contains(msg, "completed 1 intention") {
		t.Errorf("expected one completion counted (old ones excluded), got %q", msg)
	}
	if !strings.Contains(msg, "Still in play: 1") {
		t.Errorf("expected one open intention, got %q", msg)
	}
	if !strings.Contains(msg, "checked in 1 time") {
		t.Errorf("expected one check-in counted, got %q", msg)
	}
	if !strings.Contains(msg, "treated you kindly") {
		t.Errorf("expected an upbeat closing for positive sentiment, got %q", msg)
	}
}

func TestSendWeeklyOneFailureDoesNotBlockBatch(t *testing.T) {
	users := memory.NewUserStore()
	checks := memory.NewCheckInStore()
	tasks := memory.NewTaskStore()
	sender := newRecordingSender()
	svc := report.NewService(users, checks, tasks, sender)

	addUser(t, users, "111", true)
	addUser(t, users, "222", true)
	sender.failFor["111"] = true

	sent, err := svc.SendWeekly(context.Background())
	if err != nil {
		t.Fatalf("SendWeekly: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 report despite failure, got %d", sent)
	}
	if len(sender.texts["222"]) != 1 {
		t.Fatal("the healthy user should still get their report")
	}
}

func TestSendWeeklyQuietWeek(t *testing.T) {
	users := memory.NewUserStore()
	sender := newRecordingSender()
	svc := report.NewService(users, memory.NewCheckInStore(), memory.NewTaskStore(), sender)

	addUser(t, users, "111", true)

	if _, err := svc.SendWeekly(context.Background()); err != nil {
		t.Fatalf("SendWeekly: %v", err)
	}

	msgs := sender.texts["111"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "quiet week") {
		t.Fatalf("expected the quiet-week copy, got %v", msgs)
	}
}

package checkin_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/attune-labs/attune-agent/internal/adapters/sentiment"
	"github.com/attune-labs/attune-agent/internal/adapters/storage/memory"
	"github.com/attune-labs/attune-agent/internal/app/checkin"
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

func newService(users *memory.UserStore, checks *memory.CheckInStore, sender *recordingSender) *checkin.Service {
	return checkin.NewService(users, checks, sender, sentiment.NewKeywordAnalyzer(),
		checkin.Thresholds{Positive: 0.5, Negative: -0.2})
}

func addUser(t *testing.T, store *memory.UserStore, id domain.UserID, plan domain.PlanType) {
	t.Helper()

	err := store.CreateUser(context.Background(), &domain.User{
		ID:        id,
		Name:      "User " + string(id),
		PlanType:  plan,
		AccountID: domain.AccountPrimary,
		Active:    true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
}

func TestSendDailyStoresPrompts(t *testing.T) {
	users := memory.NewUserStore()
	checks := memory.NewCheckInStore()
	sender := newRecordingSender()
	svc := newService(users, checks, sender)

	addUser(t, users, "111", domain.PlanDaily)
	addUser(t, users, "222", domain.PlanWeekly)

	sent, err := svc.SendDaily(context.Background())
	if err != nil {
		t.Fatalf("SendDaily: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 prompts sent, got %d", sent)
	}

	for _, id := range []domain.UserID{"111", "222"} {
		prompt, err := checks.LatestCheckIn(context.Background(), id, false)
		if err != nil {
			t.Fatalf("LatestCheckIn: %v", err)
		}
		if prompt == nil || prompt.IsResponse {
			t.Fatalf("expected stored prompt for %s", id)
		}
	}
}

func TestSendWeeklyOnlyWeeklyPlans(t *testing.T) {
	users := memory.NewUserStore()
	checks := memory.NewCheckInStore()
	sender := newRecordingSender()
	svc := newService(users, checks, sender)

	addUser(t, users, "111", domain.PlanDaily)
	addUser(t, users, "222", domain.PlanWeekly)

	sent, err := svc.SendWeekly(context.Background())
	if err != nil {
		t.Fatalf("SendWeekly: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 weekly prompt, got %d", sent)
	}
	if len(sender.texts["111"]) != 0 {
		t.Fatal("daily-plan user should not get the weekly prompt")
	}
}

func TestSendDailyFailureSkipsUser(t *testing.T) {
	users := memory.NewUserStore()
	checks := memory.NewCheckInStore()
	sender := newRecordingSender()
	svc := newService(users, checks, sender)

	addUser(t, users, "111", domain.PlanDaily)
	addUser(t, users, "222", domain.PlanDaily)
	sender.failFor["111"] = true

	sent, err := svc.SendDaily(context.Background())
	if err != nil {
		t.Fatalf("SendDaily: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 prompt despite failure, got %d", sent)
	}

	// No prompt is recorded for the failed user, so the follow-up
	// machinery never anchors on a message that was not delivered.
	prompt, err := checks.LatestCheckIn(context.Background(), "111", false)
	if err != nil {
		t.Fatalf("LatestCheckIn: %v", err)
	}
	if prompt != nil {
		t.Fatal("undelivered prompt must not be stored")
	}
}

func TestProcessResponseScoresAndReplies(t *testing.T) {
	users := memory.NewUserStore()
	checks := memory.NewCheckInStore()
	sender := newRecordingSender()
	svc := newService(users, checks, sender)

	addUser(t, users, "111", domain.PlanDaily)
	user, _ := users.GetUser(context.Background(), "111")

	if err := svc.ProcessResponse(context.Background(), user, "feeling great and happy today"); err != nil {
		t.Fatalf("ProcessResponse: %v", err)
	}

	resp, err := checks.LatestCheckIn(context.Background(), "111", true)
	if err != nil {
		t.Fatalf("LatestCheckIn: %v", err)
	}
	if resp == nil {
		t.Fatal("expected stored response")
	}
	if resp.Sentiment == nil || *resp.Sentiment <= 0 {
		t.Fatalf("expected positive sentiment, got %v", resp.Sentiment)
	}

	if len(sender.texts["111"]) != 1 {
		t.Fatalf("expected one acknowledgement, got %d", len(sender.texts["111"]))
	}
	if !strings.Contains(sender.texts["111"][0], "lovely") {
		t.Fatalf("expected upbeat acknowledgement, got %q", sender.texts["111"][0])
	}
}

func TestProcessResponseInheritsPromptKind(t *testing.T) {
	users := memory.NewUserStore()
	checks := memory.NewCheckInStore()
	sender := newRecordingSender()
	svc := newService(users, checks, sender)

	addUser(t, users, "111", domain.PlanWeekly)
	user, _ := users.GetUser(context.Background(), "111")

	sent, err := svc.SendWeekly(context.Background())
	if err != nil {
		t.Fatalf("SendWeekly: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected weekly prompt, got %d", sent)
	}

	if err := svc.ProcessResponse(context.Background(), user, "the week went well"); err != nil {
		t.Fatalf("ProcessResponse: %v", err)
	}

	resp, err := checks.LatestCheckIn(context.Background(), "111", true)
	if err != nil {
		t.Fatalf("LatestCheckIn: %v", err)
	}
	if resp == nil || resp.Kind != domain.CheckInWeekly {
		t.Fatalf("expected the response stored as weekly, got %+v", resp)
	}
}

func TestProcessResponseNegativeTone(t *testing.T) {
	users := memory.NewUserStore()
	checks := memory.NewCheckInStore()
	sender := newRecordingSender()
	svc := newService(users, checks, sender)

	addUser(t, users, "111", domain.PlanDaily)
	user, _ := users.GetUser(context.Background(), "111")

	if err := svc.ProcessResponse(context.Background(), user, "honestly feeling overwhelmed and stressed"); err != nil {
		t.Fatalf("ProcessResponse: %v", err)
	}

	msgs := sender.texts["111"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Thank you for sharing") {
		t.Fatalf("expected gentle acknowledgement, got %v", msgs)
	}
}

package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/attune-labs/attune-agent/internal/domain"
	"github.com/attune-labs/attune-agent/internal/observability"
)

// checkinSample caps how many recent check-ins feed one report.
const checkinSample = 100

// Service sends each active user a weekly summary of their intentions
// and check-ins. It only reads; the aggregation window is the seven
// days before the run.
type Service struct {
	users  domain.UserStore
	checks domain.CheckInStore
	tasks  domain.TaskStore
	sender domain.MessageSender
	now    func() time.Time
}

func NewService(
	users domain.UserStore,
	checks domain.CheckInStore,
	tasks domain.TaskStore,
	sender domain.MessageSender,
) *Service {
	return &Service{
		users:  users,
		checks: checks,
		tasks:  tasks,
		sender: sender,
		now:    time.Now,
	}
}

type weekSummary struct {
	completed int
	active    int
	responses int
	sentiment *float64
}

// SendWeekly builds and sends the progress report for every active
// user and returns how many went out. Per-user failures are logged and
// skipped.
func (s *Service) SendWeekly(ctx context.Context) (int, error) {
	log := observability.LoggerFromContext(ctx).With("component", "weekly_report")

	users, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("report: listing active users: %w", err)
	}

	since := s.now().Add(-7 * 24 * time.Hour)

	sent := 0
	for _, user := range users {
		summary, err := s.summarize(ctx, user.ID, since)
		if err != nil {
			log.Error("failed to summarize week, skipping user", "user_id", user.ID, "error", err)
			continue
		}

		if err := s.sender.SendText(ctx, user.AccountID, user.ID, reportMessage(user, summary)); err != nil {
			log.Error("failed to send weekly report", "user_id", user.ID, "error", err)
			continue
		}

		log.Info("sent weekly report", "user_id", user.ID,
			"completed", summary.completed, "responses", summary.responses)
		sent++
	}

	return sent, nil
}

func (s *Service) summarize(ctx context.Context, userID domain.UserID, since time.Time) (weekSummary, error) {
	var sum weekSummary

	tasks, err := s.tasks.ListTasks(ctx, userID, nil)
	if err != nil {
		return sum, fmt.Errorf("listing tasks: %w", err)
	}
	for _, t := range tasks {
		switch {
		case t.Status == domain.StatusCompleted && t.UpdatedAt.After(since):
			sum.completed++
		case t.IsActive():
			sum.active++
		}
	}

	checkins, err := s.checks.ListCheckIns(ctx, userID, checkinSample)
	if err != nil {
		return sum, fmt.Errorf("listing check-ins: %w", err)
	}
	var scoreSum float64
	var scored int
	for _, c := range checkins {
		if !c.IsResponse || !c.CreatedAt.After(since) {
			continue
		}
		sum.responses++
		if c.Sentiment != nil {
			scored++
			scoreSum += *c.Sentiment
		}
	}
	if scored > 0 {
		avg := scoreSum / float64(scored)
		sum.sentiment = &avg
	}

	return sum, nil
}

func reportMessage(user *domain.User, sum weekSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s! Here's a gentle look back at your week:\n\n", user.FirstName())

	switch {
	case sum.completed > 0:
		fmt.Fprintf(&b, "You completed %d intention%s - genuinely worth celebrating.\n",
			sum.completed, plural(sum.completed))
	case sum.active > 0:
		b.WriteString("No intentions crossed off this week, and that's okay - they'll be there when you're ready.\n")
	default:
		b.WriteString("A quiet week on the intentions front, which is a perfectly fine way for a week to be.\n")
	}

	if sum.active > 0 {
		fmt.Fprintf(&b, "Still in play: %d intention%s.\n", sum.active, plural(sum.active))
	}
	if sum.responses > 0 {
		fmt.Fprintf(&b, "You checked in %d time%s.\n", sum.responses, plural(sum.responses))
	}

	switch {
	case sum.sentiment != nil && *sum.sentiment >= 0.3:
		b.WriteString("\nIt sounds like the week treated you kindly. Let's carry that forward.")
	case sum.sentiment != nil && *sum.sentiment <= -0.2:
		b.WriteString("\nIt sounds like the week asked a lot of you. Be gentle with yourself going into the next one.")
	default:
		b.WriteString("\nHowever the week felt, showing up at all counts. Here's to the one ahead.")
	}

	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

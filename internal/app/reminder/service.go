package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/attune-labs/attune-agent/internal/domain"
	"github.com/attune-labs/attune-agent/internal/observability"
)

// Service selects users who are due a follow-up and dispatches it.
// Eligibility is a side-effect-free query; Run performs the sends and
// records each successful one in the ledger so overlapping cron runs
// do not double-send.
type Service struct {
	users  domain.UserStore
	checks domain.CheckInStore
	ledger domain.ReminderLedger
	sender domain.MessageSender
	now    func() time.Time
}

func NewService(
	users domain.UserStore,
	checks domain.CheckInStore,
	ledger domain.ReminderLedger,
	sender domain.MessageSender,
) *Service {
	return &Service{
		users:  users,
		checks: checks,
		ledger: ledger,
		sender: sender,
		now:    time.Now,
	}
}

// Candidate is one user due a follow-up, together with the prompt the
// follow-up answers for.
type Candidate struct {
	User     *domain.User
	PromptID domain.CheckInID
}

// Eligible returns the users due a follow-up of the given category at
// the given time. A user qualifies when they have an unresponded
// check-in prompt whose age falls inside the category's window and no
// follow-up of that category has been recorded for the prompt yet.
//
// A user with broken or missing data is skipped, never fatal: one bad
// record must not abort the whole batch.
func (s *Service) Eligible(ctx context.Context, category domain.Category, now time.Time) ([]Candidate, error) {
	if category == domain.CategoryNone {
		return nil, fmt.Errorf("reminder: eligibility needs a concrete category")
	}

	log := observability.LoggerFromContext(ctx).With("category", string(category))

	users, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("reminder: listing active users: %w", err)
	}

	var out []Candidate
	for _, user := range users {
		prompt, err := s.checks.LatestCheckIn(ctx, user.ID, false)
		if err != nil {
			log.Error("failed to load last prompt, skipping user", "user_id", user.ID, "error", err)
			continue
		}
		if prompt == nil {
			continue // never prompted
		}
		if prompt.CreatedAt.IsZero() {
			log.Warn("prompt has no timestamp, skipping user", "user_id", user.ID, "prompt_id", prompt.ID)
			continue
		}

		response, err := s.checks.LatestCheckIn(ctx, user.ID, true)
		if err != nil {
			log.Error("failed to load last response, skipping user", "user_id", user.ID, "error", err)
			continue
		}
		if response != nil && response.CreatedAt.After(prompt.CreatedAt) {
			continue // already answered
		}

		elapsed := now.Sub(prompt.CreatedAt)
		if elapsed < 0 {
			log.Warn("prompt timestamp is in the future, skipping user", "user_id", user.ID, "prompt_id", prompt.ID)
			continue
		}
		if domain.Classify(elapsed) != category {
			continue
		}

		sent, err := s.ledger.Sent(ctx, prompt.ID, category)
		if err != nil {
			log.Error("failed to check reminder ledger, skipping user", "user_id", user.ID, "error", err)
			continue
		}
		if sent {
			continue
		}

		out = append(out, Candidate{User: user, PromptID: prompt.ID})
	}

	return out, nil
}

// Run sends the follow-up of the given category to every eligible user
// and returns how many went out. A failed send is logged and the batch
// moves on; the next scheduled run picks the user up again because no
// ledger entry was written.
func (s *Service) Run(ctx context.Context, category domain.Category) (int, error) {
	now := s.now()

	candidates, err := s.Eligible(ctx, category, now)
	if err != nil {
		return 0, err
	}

	log := observability.LoggerFromContext(ctx).With("category", string(category))
	log.Info("dispatching follow-up reminders", "eligible", len(candidates))

	sent := 0
	for _, c := range candidates {
		body, buttons := followupMessage(category, c.User)

		if err := s.sender.SendButtons(ctx, c.User.AccountID, c.User.ID, body, buttons); err != nil {
			log.Error("failed to send follow-up", "user_id", c.User.ID, "error", err)
			continue
		}

		rec := domain.ReminderRecord{
			PromptID: c.PromptID,
			Category: category,
			UserID:   c.User.ID,
			SentAt:   now,
		}
		if err := s.ledger.Record(ctx, rec); err != nil {
			// The message went out; a missing ledger entry risks one
			// duplicate on the next run, which is tolerable.
			log.Error("failed to record reminder", "user_id", c.User.ID, "error", err)
		}

		log.Info("sent follow-up", "user_id", c.User.ID, "prompt_id", c.PromptID)
		sent++
	}

	return sent, nil
}

// Sweep runs every category in order and returns the per-category counts.
func (s *Service) Sweep(ctx context.Context) (map[domain.Category]int, error) {
	counts := make(map[domain.Category]int)
	for _, cat := range domain.Categories() {
		n, err := s.Run(ctx, cat)
		if err != nil {
			return counts, err
		}
		counts[cat] = n
	}
	return counts, nil
}

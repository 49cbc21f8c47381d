package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune-agent/internal/domain"
	"github.com/attune-labs/attune-agent/internal/observability"
)

// Thresholds split sentiment scores into positive / neutral / negative
// for reply selection.
type Thresholds struct {
	Positive float64
	Negative float64
}

// Service sends check-in prompts and processes the replies.
type Service struct {
	users      domain.UserStore
	checks     domain.CheckInStore
	sender     domain.MessageSender
	sentiment  domain.SentimentAnalyzer
	thresholds Thresholds
	now        func() time.Time
}

func NewService(
	users domain.UserStore,
	checks domain.CheckInStore,
	sender domain.MessageSender,
	sentiment domain.SentimentAnalyzer,
	thresholds Thresholds,
) *Service {
	return &Service{
		users:      users,
		checks:     checks,
		sender:     sender,
		sentiment:  sentiment,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// SendDaily sends the morning check-in to every active user and stores
// each prompt as an unresponded check-in. One failed user never blocks
// the rest of the batch.
func (s *Service) SendDaily(ctx context.Context) (int, error) {
	return s.sendPrompts(ctx, domain.CheckInDaily)
}

// SendWeekly sends the weekly reflection to active users on a weekly plan.
func (s *Service) SendWeekly(ctx context.Context) (int, error) {
	return s.sendPrompts(ctx, domain.CheckInWeekly)
}

func (s *Service) sendPrompts(ctx context.Context, kind domain.CheckInKind) (int, error) {
	log := observability.LoggerFromContext(ctx).With("kind", string(kind))

	users, err := s.users.ListActiveUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("checkin: listing active users: %w", err)
	}

	sent := 0
	for _, user := range users {
		if kind == domain.CheckInWeekly && user.PlanType != domain.PlanWeekly {
			continue
		}

		text := promptText(kind, user)
		if err := s.sender.SendText(ctx, user.AccountID, user.ID, text); err != nil {
			log.Error("failed to send check-in prompt", "user_id", user.ID, "error", err)
			continue
		}

		prompt := &domain.CheckIn{
			ID:         domain.CheckInID(uuid.NewString()),
			UserID:     user.ID,
			Kind:       kind,
			IsResponse: false,
			Text:       text,
			CreatedAt:  s.now(),
		}
		if err := s.checks.AppendCheckIn(ctx, prompt); err != nil {
			// Without the prompt record the follow-up windows cannot
			// anchor, so this is worth shouting about.
			log.Error("failed to store check-in prompt", "user_id", user.ID, "error", err)
			continue
		}

		log.Info("sent check-in prompt", "user_id", user.ID, "checkin_id", prompt.ID)
		sent++
	}

	return sent, nil
}

func promptText(kind domain.CheckInKind, user *domain.User) string {
	name := user.FirstName()
	if kind == domain.CheckInWeekly {
		return fmt.Sprintf(
			"Hi %s! It's time for your weekly reflection. Looking back at the week: "+
				"what felt good, and what felt heavy? There are no wrong answers.",
			name,
		)
	}
	return fmt.Sprintf(
		"Good morning %s! I hope you've been able to rest. How are you feeling today? "+
			"Whatever you're experiencing is completely valid.",
		name,
	)
}

// ProcessResponse stores a user's reply to a check-in, scores its
// sentiment and answers with a tone-matched acknowledgement. A failed
// sentiment call degrades to an unscored check-in rather than an error.
func (s *Service) ProcessResponse(ctx context.Context, user *domain.User, text string) error {
	log := observability.LoggerFromContext(ctx).With("user_id", user.ID)

	var scorePtr *float64
	score, err := s.sentiment.Analyze(ctx, text)
	if err != nil {
		log.Warn("sentiment analysis failed, storing unscored response", "error", err)
	} else {
		scorePtr = &score
	}

	// The response inherits the kind of the prompt it answers, so a
	// weekly reflection is stored as weekly.
	kind := domain.CheckInDaily
	if prompt, err := s.checks.LatestCheckIn(ctx, user.ID, false); err != nil {
		log.Warn("failed to load last prompt, assuming daily", "error", err)
	} else if prompt != nil {
		kind = prompt.Kind
	}

	response := &domain.CheckIn{
		ID:         domain.CheckInID(uuid.NewString()),
		UserID:     user.ID,
		Kind:       kind,
		IsResponse: true,
		Text:       text,
		Sentiment:  scorePtr,
		CreatedAt:  s.now(),
	}
	if err := s.checks.AppendCheckIn(ctx, response); err != nil {
		return fmt.Errorf("checkin: storing response: %w", err)
	}

	reply := s.replyFor(scorePtr, user)
	if err := s.sender.SendText(ctx, user.AccountID, user.ID, reply); err != nil {
		log.Error("failed to send check-in acknowledgement", "error", err)
	}

	log.Info("processed check-in response", "checkin_id", response.ID, "scored", scorePtr != nil)
	return nil
}

func (s *Service) replyFor(score *float64, user *domain.User) string {
	name := user.FirstName()

	switch {
	case score != nil && *score >= s.thresholds.Positive:
		return fmt.Sprintf(
			"That's lovely to hear, %s! Let's carry that energy into the day. "+
				"Would you like to set an intention or two? Just list them and I'll keep track.",
			name,
		)
	case score != nil && *score <= s.thresholds.Negative:
		return fmt.Sprintf(
			"Thank you for sharing that with me, %s. Heavy days are part of being human, "+
				"and you don't have to push through alone. Would a small, gentle step help, "+
				"or would you rather just rest today?",
			name,
		)
	default:
		return fmt.Sprintf(
			"Thanks for checking in, %s. However today unfolds is okay. "+
				"If you'd like, tell me one thing you'd like to do today and we'll start there.",
			name,
		)
	}
}

package analytics

import (
	"context"
	"fmt"

	"github.com/attune-labs/attune-agent/internal/domain"
)

// Metrics is the aggregate snapshot shown on the admin surface.
type Metrics struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
	// ResponseRate is responses / prompts over the sampled check-ins,
	// as a percentage. 100 when nothing has been prompted yet.
	ResponseRate float64 `json:"response_rate"`
	// CompletionRate is completed / all tasks, as a percentage.
	CompletionRate float64 `json:"completion_rate"`
	// SentimentAverage is the mean of all scored responses, 0 when none.
	SentimentAverage float64 `json:"sentiment_average"`
	ScoredResponses  int     `json:"scored_responses"`
}

// sample size per user when aggregating check-ins.
const checkinSample = 100

type Service struct {
	users  domain.UserStore
	checks domain.CheckInStore
	tasks  domain.TaskStore
}

func NewService(users domain.UserStore, checks domain.CheckInStore, tasks domain.TaskStore) *Service {
	return &Service{users: users, checks: checks, tasks: tasks}
}

// Overview aggregates counts and rates over all stored records. Plain
// averaging, nothing clever.
func (s *Service) Overview(ctx context.Context) (*Metrics, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: listing users: %w", err)
	}

	m := &Metrics{TotalUsers: len(users)}

	var prompts, responses, scored int
	var sentimentSum float64
	var allTasks, completed int

	for _, user := range users {
		if user.Active {
			m.ActiveUsers++
		}

		checkins, err := s.checks.ListCheckIns(ctx, user.ID, checkinSample)
		if err != nil {
			return nil, fmt.Errorf("analytics: listing check-ins for %s: %w", user.ID, err)
		}
		for _, c := range checkins {
			if c.IsResponse {
				responses++
				if c.Sentiment != nil {
					scored++
					sentimentSum += *c.Sentiment
				}
			} else {
				prompts++
			}
		}

		tasks, err := s.tasks.ListTasks(ctx, user.ID, nil)
		if err != nil {
			return nil, fmt.Errorf("analytics: listing tasks for %s: %w", user.ID, err)
		}
		for _, t := range tasks {
			allTasks++
			if t.Status == domain.StatusCompleted {
				completed++
			}
		}
	}

	m.ResponseRate = rate(responses, prompts)
	m.CompletionRate = rate(completed, allTasks)
	m.ScoredResponses = scored
	if scored > 0 {
		m.SentimentAverage = sentimentSum / float64(scored)
	}

	return m, nil
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 100
	}
	return float64(part) / float64(whole) * 100
}

package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune-agent/internal/domain"
	"github.com/attune-labs/attune-agent/internal/observability"
)

// Reply is one outbound message produced by a task operation. The
// caller owns the actual send so the service stays free of transport
// concerns.
type Reply struct {
	Text    string
	Buttons []domain.Button
}

type Service struct {
	store domain.TaskStore
	now   func() time.Time
}

func NewService(store domain.TaskStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Create adds a pending task for the user.
func (s *Service) Create(ctx context.Context, userID domain.UserID, description string) (*domain.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("tasks: empty description")
	}

	now := s.now()
	task := &domain.Task{
		ID:          domain.TaskID(uuid.NewString()),
		UserID:      userID,
		Description: description,
		Category:    domain.CategoryOther,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("tasks: creating task: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("task created",
		"user_id", userID, "task_id", task.ID)
	return task, nil
}

// MaxPlanTasks caps how many intentions one planning message creates.
const MaxPlanTasks = 3

// CreatePlan turns a planning message into tasks, one per line (commas
// work too for single-line messages). Leading list markers like "1." or
// "-" are stripped. At most MaxPlanTasks are kept.
func (s *Service) CreatePlan(ctx context.Context, userID domain.UserID, text string) ([]*domain.Task, error) {
	var created []*domain.Task
	for _, desc := range splitPlan(text) {
		if len(created) == MaxPlanTasks {
			break
		}
		task, err := s.Create(ctx, userID, desc)
		if err != nil {
			return created, err
		}
		created = append(created, task)
	}
	return created, nil
}

// PlanReply builds the confirmation sent after a planning message.
func (s *Service) PlanReply(ctx context.Context, userID domain.UserID, created []*domain.Task) (string, error) {
	if len(created) == 0 {
		return "I couldn't find anything to track in that - could you list your intentions, one per line?", nil
	}

	listing, err := s.ListMessage(ctx, userID)
	if err != nil {
		return "", err
	}

	lead := "Lovely - I've noted that intention.\n\n"
	if len(created) > 1 {
		lead = fmt.Sprintf("Lovely - I've noted those %d intentions.\n\n", len(created))
	}
	return lead + listing, nil
}

func splitPlan(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		lines = strings.Split(text, ",")
	}

	var out []string
	for _, line := range lines {
		desc := strings.TrimSpace(line)
		desc = strings.TrimLeft(desc, "-*•")
		// "1." / "2)" style numbering from users who write lists.
		if i := strings.IndexAny(desc, ".)"); i > 0 && i <= 2 {
			if _, err := strconv.Atoi(desc[:i]); err == nil {
				desc = desc[i+1:]
			}
		}
		desc = strings.TrimSpace(desc)
		if desc != "" {
			out = append(out, desc)
		}
	}
	return out
}

// Active returns the user's active tasks, oldest first. The order is
// what gives the 1-based numbering in the chat its meaning.
func (s *Service) Active(ctx context.Context, userID domain.UserID) ([]*domain.Task, error) {
	return s.store.ListTasks(ctx, userID, domain.ActiveStatuses())
}

// List returns the user's tasks filtered by status; nil means all.
func (s *Service) List(ctx context.Context, userID domain.UserID, statuses []domain.TaskStatus) ([]*domain.Task, error) {
	return s.store.ListTasks(ctx, userID, statuses)
}

// ApplyCommand executes a parsed task update command against the user's
// active task list. An out-of-range index produces a "not found" reply
// and changes nothing.
func (s *Service) ApplyCommand(ctx context.Context, user *domain.User, cmd domain.TaskCommand) ([]Reply, error) {
	active, err := s.Active(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("tasks: listing active tasks: %w", err)
	}

	if cmd.Index < 1 || cmd.Index > len(active) {
		return []Reply{{
			Text: fmt.Sprintf("Task number %d not found. You have %d active tasks.", cmd.Index, len(active)),
		}}, nil
	}

	task := active[cmd.Index-1]
	task.Status = cmd.Action.Status()
	task.UpdatedAt = s.now()

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("tasks: updating task %s: %w", task.ID, err)
	}

	observability.LoggerFromContext(ctx).Info("task status updated",
		"user_id", user.ID, "task_id", task.ID, "status", string(task.Status))

	switch cmd.Action {
	case domain.ActionComplete:
		replies := []Reply{{
			Text: fmt.Sprintf(
				"That's wonderful! You completed: %s\nEven small steps are meaningful progress - this is something to celebrate.",
				task.Description,
			),
		}}

		remaining, err := s.Active(ctx, user.ID)
		if err != nil {
			return replies, nil // celebration is best-effort
		}
		if len(remaining) == 0 {
			replies = append(replies, Reply{
				Text: "What a beautiful moment! You've completed all the intentions you set.\n" +
					"This is truly something to celebrate. Would you like to:",
				Buttons: []domain.Button{
					{ID: "add_more_tasks", Title: "Add a new intention"},
					{ID: "done_for_today", Title: "Rest & celebrate"},
				},
			})
		}
		return replies, nil

	case domain.ActionInProgress:
		return []Reply{{
			Text: fmt.Sprintf(
				"I've noted you're working on: %s\nStarting is often the hardest part - I appreciate your effort.",
				task.Description,
			),
		}}, nil

	default: // stuck
		return []Reply{{
			Text: fmt.Sprintf(
				"I hear that you're finding '%s' challenging, and that's completely okay and normal.\n\nWould you like to explore any of these gentle options:",
				task.Description,
			),
			// Button titles must stay within the 20-character cap.
			Buttons: []domain.Button{
				{ID: "break_down", Title: "Break it down"},
				{ID: "modify_task", Title: "Adjust the task"},
				{ID: "get_strategies", Title: "Support options"},
			},
		}}, nil
	}
}

// ListMessage formats the numbered active task list shown in the chat.
func (s *Service) ListMessage(ctx context.Context, userID domain.UserID) (string, error) {
	active, err := s.Active(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("tasks: listing active tasks: %w", err)
	}

	if len(active) == 0 {
		return "You don't have any active intentions at the moment, which is perfectly okay. " +
			"Would you like to add something small that might feel nurturing or helpful?", nil
	}

	var b strings.Builder
	b.WriteString("Here are the intentions you've set (no pressure to complete all or any of these):\n\n")
	for i, t := range active {
		marker := "[ ]"
		switch t.Status {
		case domain.StatusInProgress:
			marker = "[~]"
		case domain.StatusStuck:
			marker = "[!]"
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, marker, t.Description)
	}
	b.WriteString("\nTo update one, reply with:\n")
	b.WriteString("DONE [number] - celebrate completing it\n")
	b.WriteString("PROGRESS [number] - note you've started\n")
	b.WriteString("STUCK [number] - it feels challenging")

	return b.String(), nil
}

// FocusTip picks a strategy for getting unstuck.
func (s *Service) FocusTip() string {
	return focusTips[rand.Intn(len(focusTips))]
}

// SelfCareTip picks a rest-day suggestion.
func (s *Service) SelfCareTip() string {
	return selfCareTips[rand.Intn(len(selfCareTips))]
}

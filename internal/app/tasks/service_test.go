package tasks_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/attune-labs/attune-agent/internal/adapters/storage/memory"
	"github.com/attune-labs/attune-agent/internal/app/tasks"
	"github.com/attune-labs/attune-agent/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:        "555",
		Name:      "Robin",
		Mode:      domain.TrackingHuman,
		PlanType:  domain.PlanDaily,
		AccountID: domain.AccountPrimary,
		Active:    true,
	}
}

func seedTasks(t *testing.T, svc *tasks.Service, userID domain.UserID, descs ...string) {
	t.Helper()

	for _, d := range descs {
		if _, err := svc.Create(context.Background(), userID, d); err != nil {
			t.Fatalf("Create(%q): %v", d, err)
		}
		// Creation order drives the 1-based numbering.
		time.Sleep(time.Millisecond)
	}
}

func TestApplyCommandDone(t *testing.T) {
	store := memory.NewTaskStore()
	svc := tasks.NewService(store)
	user := testUser()

	seedTasks(t, svc, user.ID, "water the plants", "write report", "call dentist")

	replies, err := svc.ApplyCommand(context.Background(), user, domain.TaskCommand{
		Action: domain.ActionComplete, Index: 1,
	})
	if err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}
	if len(replies) == 0 || !strings.Contains(replies[0].Text, "water the plants") {
		t.Fatalf("expected completion reply naming the task, got %+v", replies)
	}

	active, err := svc.Active(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active tasks after completion, got %d", len(active))
	}
	for _, task := range active {
		if task.Description == "water the plants" {
			t.Fatal("completed task still listed as active")
		}
	}
}

func TestApplyCommandOutOfRange(t *testing.T) {
	store := memory.NewTaskStore()
	svc := tasks.NewService(store)
	user := testUser()

	seedTasks(t, svc, user.ID, "a", "b", "c")

	replies, err := svc.ApplyCommand(context.Background(), user, domain.TaskCommand{
		Action: domain.ActionStuck, Index: 9,
	})
	if err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "not found") {
		t.Fatalf("expected not-found reply, got %+v", replies)
	}

	// Nothing mutated.
	active, err := svc.Active(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active tasks untouched, got %d", len(active))
	}
	for _, task := range active {
		if task.Status != domain.StatusPending {
			t.Fatalf("task %q mutated to %q", task.Description, task.Status)
		}
	}
}

func TestApplyCommandStuckOffersOptions(t *testing.T) {
	store := memory.NewTaskStore()
	svc := tasks.NewService(store)
	user := testUser()

	seedTasks(t, svc, user.ID, "tidy desk")

	replies, err := svc.ApplyCommand(context.Background(), user, domain.TaskCommand{
		Action: domain.ActionStuck, Index: 1,
	})
	if err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}
	if len(replies) != 1 || len(replies[0].Buttons) != 3 {
		t.Fatalf("expected a reply with 3 option buttons, got %+v", replies)
	}

	task, err := svc.Active(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(task) != 1 || task[0].Status != domain.StatusStuck {
		t.Fatalf("expected task marked stuck, got %+v", task)
	}
}

func TestCompletingLastTaskCelebrates(t *testing.T) {
	store := memory.NewTaskStore()
	svc := tasks.NewService(store)
	user := testUser()

	seedTasks(t, svc, user.ID, "only task")

	replies, err := svc.ApplyCommand(context.Background(), user, domain.TaskCommand{
		Action: domain.ActionComplete, Index: 1,
	})
	if err != nil {
		t.Fatalf("ApplyCommand: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("expected completion plus celebration, got %d replies", len(replies))
	}
	if len(replies[1].Buttons) == 0 {
		t.Fatal("celebration should offer next-step buttons")
	}
}

func TestListMessageNumbersTasks(t *testing.T) {
	store := memory.NewTaskStore()
	svc := tasks.NewService(store)
	user := testUser()

	seedTasks(t, svc, user.ID, "first thing", "second thing")

	msg, err := svc.ListMessage(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListMessage: %v", err)
	}
	if !strings.Contains(msg, "1. ") || !strings.Contains(msg, "first thing") {
		t.Fatalf("expected numbered list, got %q", msg)
	}
	if !strings.Contains(msg, "2. ") || !strings.Contains(msg, "second thing") {
		t.Fatalf("expected second entry, got %q", msg)
	}
}

func TestCreatePlan(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "one per line",
			text: "water the plants\nwrite report\ncall dentist",
			want: []string{"water the plants", "write report", "call dentist"},
		},
		{
			name: "numbered list",
			text: "1. water the plants\n2) write report",
			want: []string{"water the plants", "write report"},
		},
		{
			name: "dashes and blanks",
			text: "- water the plants\n\n- write report\n   ",
			want: []string{"water the plants", "write report"},
		},
		{
			name: "single line with commas",
			text: "water the plants, write report",
			want: []string{"water the plants", "write report"},
		},
		{
			name: "capped at three",
			text: "a\nb\nc\nd\ne",
			want: []string{"a", "b", "c"},
		},
		{
			name: "nothing usable",
			text: "   \n  ",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := tasks.NewService(memory.NewTaskStore())

			created, err := svc.CreatePlan(context.Background(), "555", tc.text)
			if err != nil {
				t.Fatalf("CreatePlan: %v", err)
			}
			if len(created) != len(tc.want) {
				t.Fatalf("expected %d tasks, got %d", len(tc.want), len(created))
			}
			for i, task := range created {
				if task.Description != tc.want[i] {
					t.Errorf("task %d = %q, want %q", i, task.Description, tc.want[i])
				}
				if task.Status != domain.StatusPending {
					t.Errorf("task %d status = %q, want pending", i, task.Status)
				}
			}
		})
	}
}

func TestPlanReply(t *testing.T) {
	svc := tasks.NewService(memory.NewTaskStore())

	created, err := svc.CreatePlan(context.Background(), "555", "water the plants\nwrite report")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	reply, err := svc.PlanReply(context.Background(), "555", created)
	if err != nil {
		t.Fatalf("PlanReply: %v", err)
	}
	if !strings.Contains(reply, "2 intentions") || !strings.Contains(reply, "1. ") {
		t.Fatalf("expected confirmation with numbered list, got %q", reply)
	}

	empty, err := svc.PlanReply(context.Background(), "555", nil)
	if err != nil {
		t.Fatalf("PlanReply: %v", err)
	}
	if !strings.Contains(empty, "one per line") {
		t.Fatalf("expected a retry prompt for an empty plan, got %q", empty)
	}
}

func TestListMessageEmpty(t *testing.T) {
	store := memory.NewTaskStore()
	svc := tasks.NewService(store)

	msg, err := svc.ListMessage(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListMessage: %v", err)
	}
	if !strings.Contains(msg, "don't have any active intentions") {
		t.Fatalf("unexpected empty-list message: %q", msg)
	}
}

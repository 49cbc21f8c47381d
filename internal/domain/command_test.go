package domain_test

import (
	"testing"

	"github.com/attune-labs/attune-agent/internal/domain"
)

func TestParseTaskCommand(t *testing.T) {
	cases := []struct {
		text   string
		want   domain.TaskCommand
		wantOK bool
	}{
		{"done 1", domain.TaskCommand{Action: domain.ActionComplete, Index: 1}, true},
		{"DONE 1", domain.TaskCommand{Action: domain.ActionComplete, Index: 1}, true},
		{"  Finished 3 ", domain.TaskCommand{Action: domain.ActionComplete, Index: 3}, true},
		{"complete 2", domain.TaskCommand{Action: domain.ActionComplete, Index: 2}, true},
		{"progress 2", domain.TaskCommand{Action: domain.ActionInProgress, Index: 2}, true},
		{"working 1", domain.TaskCommand{Action: domain.ActionInProgress, Index: 1}, true},
		{"started 4", domain.TaskCommand{Action: domain.ActionInProgress, Index: 4}, true},
		{"stuck 9", domain.TaskCommand{Action: domain.ActionStuck, Index: 9}, true},
		{"Blocked 1", domain.TaskCommand{Action: domain.ActionStuck, Index: 1}, true},
		{"help 2", domain.TaskCommand{Action: domain.ActionStuck, Index: 2}, true},

		{"done", domain.TaskCommand{}, false},
		{"done one", domain.TaskCommand{}, false},
		{"done 1 now", domain.TaskCommand{}, false},
		{"done -1", domain.TaskCommand{}, false},
		{"shipit 1", domain.TaskCommand{}, false},
		{"feeling great today", domain.TaskCommand{}, false},
		{"", domain.TaskCommand{}, false},
	}

	for _, tc := range cases {
		got, ok := domain.ParseTaskCommand(tc.text)
		if ok != tc.wantOK {
			t.Errorf("ParseTaskCommand(%q) ok = %v, want %v", tc.text, ok, tc.wantOK)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseTaskCommand(%q) = %+v, want %+v", tc.text, got, tc.want)
		}
	}
}

func TestTaskActionStatus(t *testing.T) {
	if domain.ActionComplete.Status() != domain.StatusCompleted {
		t.Error("complete should map to completed")
	}
	if domain.ActionInProgress.Status() != domain.StatusInProgress {
		t.Error("in progress should map to in_progress")
	}
	if domain.ActionStuck.Status() != domain.StatusStuck {
		t.Error("stuck should map to stuck")
	}
}

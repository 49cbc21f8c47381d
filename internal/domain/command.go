package domain

import (
	"strconv"
	"strings"
)

// TaskAction is the closed set of status changes a chat command can ask for.
type TaskAction int

const (
	ActionComplete TaskAction = iota
	ActionInProgress
	ActionStuck
)

// Status returns the task status the action moves a task into.
func (a TaskAction) Status() TaskStatus {
	switch a {
	case ActionComplete:
		return StatusCompleted
	case ActionInProgress:
		return StatusInProgress
	default:
		return StatusStuck
	}
}

// TaskCommand is a parsed task update command, e.g. "done 2".
// Index is 1-based, matching the numbered list shown to the user.
type TaskCommand struct {
	Action TaskAction
	Index  int
}

var commandVerbs = map[string]TaskAction{
	"done":     ActionComplete,
	"complete": ActionComplete,
	"finished": ActionComplete,
	"progress": ActionInProgress,
	"doing":    ActionInProgress,
	"working":  ActionInProgress,
	"started":  ActionInProgress,
	"stuck":    ActionStuck,
	"help":     ActionStuck,
	"blocked":  ActionStuck,
}

// ParseTaskCommand recognizes task update commands of the form
// "<verb> <number>", case-insensitively. It reports false for anything
// else, leaving the message to the normal conversation path. Validating
// the index against the user's task list is the caller's job.
func ParseTaskCommand(text string) (TaskCommand, bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) != 2 {
		return TaskCommand{}, false
	}

	action, ok := commandVerbs[fields[0]]
	if !ok {
		return TaskCommand{}, false
	}

	// Bare digits only: a negative number is not a command, but an
	// out-of-range positive one is (the caller answers "not found").
	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 0 {
		return TaskCommand{}, false
	}

	return TaskCommand{Action: action, Index: index}, true
}

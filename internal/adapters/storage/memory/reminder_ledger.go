package memory

import (
	"context"
	"sync"

	"github.com/attune-labs/attune-agent/internal/domain"
)

type ReminderLedger struct {
	mu   sync.RWMutex
	sent map[string]domain.ReminderRecord
}

func NewReminderLedger() *ReminderLedger {
	return &ReminderLedger{sent: make(map[string]domain.ReminderRecord)}
}

func (l *ReminderLedger) Sent(_ context.Context, promptID domain.CheckInID, category domain.Category) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.sent[domain.ReminderRecord{PromptID: promptID, Category: category}.Key()]
	return ok, nil
}

func (l *ReminderLedger) Record(_ context.Context, rec domain.ReminderRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sent[rec.Key()] = rec
	return nil
}

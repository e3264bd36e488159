package model

import (
	"testing"
	"time"
)

func TestRecurrenceNext(t *testing.T) {
	base := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		rule   Recurrence
		want   time.Time
		wantOK bool
	}{
		{"daily", RecurrenceDaily, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC), true},
		{"weekly", RecurrenceWeekly, time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC), true},
		{"monthly overflow normalises", RecurrenceMonthly, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), true},
		{"none", RecurrenceNone, time.Time{}, false},
		{"unknown", Recurrence("yearly"), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rule.Next(base)
			if ok != tt.wantOK {
				t.Fatalf("Next() ok = %v, want %v", ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskPriorityRank(t *testing.T) {
	order := []TaskPriority{TaskPriorityUrgent, TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank before %s", order[i-1], order[i])
		}
	}
}

func TestTaskStatusOpen(t *testing.T) {
	if !TaskStatusPending.Open() || !TaskStatusInProgress.Open() {
		t.Error("pending and in_progress should be open")
	}
	if TaskStatusDone.Open() || TaskStatusCancelled.Open() {
		t.Error("done and cancelled should not be open")
	}
}

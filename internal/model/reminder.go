package model

import "time"

// Recurrence is the repeat rule of a reminder. The empty value means one-shot.
type Recurrence string

const (
	RecurrenceNone    Recurrence = ""
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Valid reports whether r is a known rule, including none.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Next returns the occurrence after t. The second result is false for
// one-shot and unknown rules. Month arithmetic follows time.AddDate, so
// Jan 31 + 1 month normalises to early March.
func (r Recurrence) Next(t time.Time) (time.Time, bool) {
	switch r {
	case RecurrenceDaily:
		return t.AddDate(0, 0, 1), true
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7), true
	case RecurrenceMonthly:
		return t.AddDate(0, 1, 0), true
	}
	return time.Time{}, false
}

type Reminder struct {
	ID         string
	UserID     string
	Text       string
	RemindAt   time.Time
	IsSent     bool
	Recurrence Recurrence
	EventID    string
	CreatedAt  time.Time
}

package model

import "time"

const (
	DefaultEventDuration   = time.Hour
	DefaultReminderMinutes = 15
)

// Event is a calendar entry. ExternalID links it to the external calendar
// once the best-effort sync succeeded.
type Event struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	Location        string
	StartAt         time.Time
	EndAt           time.Time
	ExternalID      string
	ReminderMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

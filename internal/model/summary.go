package model

import "time"

// Summary is a condensed rendering of the older part of a session.
// Only one summary per session is current; older rows are kept for audit.
type Summary struct {
	ID        string
	SessionID string
	Content   string
	IsCurrent bool
	CreatedAt time.Time
}

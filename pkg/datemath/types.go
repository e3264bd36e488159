package datemath

import "time"

// ParseResult holds the result of parsing a date or date-time string.
// IsAllDay is set when the input named a day but no clock time.
type ParseResult struct {
	AbsoluteTime time.Time
	IsAllDay     bool
}

package freeslot

import "time"

const (
	DefaultWorkdayStart = 9
	DefaultWorkdayEnd   = 18
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Request describes a free-slot search.
//
// Working days run Monday to Friday, [WorkdayStart, WorkdayEnd) hours in
// Location. Zero WorkdayStart/WorkdayEnd use 09-18, nil Location uses UTC.
type Request struct {
	WindowStart  time.Time
	WindowEnd    time.Time
	Busy         []Interval
	MinDuration  time.Duration
	Now          time.Time
	Location     *time.Location
	WorkdayStart int
	WorkdayEnd   int
}

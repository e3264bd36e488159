package freeslot

import (
	"sort"
	"time"
)

// Find returns the free working-hour gaps in the request window that are at
// least MinDuration long, in chronological order.
func Find(req Request) []Interval {
	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	startHour, endHour := req.WorkdayStart, req.WorkdayEnd
	if startHour == 0 && endHour == 0 {
		startHour, endHour = DefaultWorkdayStart, DefaultWorkdayEnd
	}
	if endHour <= startHour || !req.WindowEnd.After(req.WindowStart) {
		return nil
	}

	busy := normalize(req.Busy)

	var slots []Interval
	ws := req.WindowStart.In(loc)
	for day := time.Date(ws.Year(), ws.Month(), ws.Day(), 0, 0, 0, 0, loc); day.Before(req.WindowEnd); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		dayStart := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, loc)
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, loc)

		dayStart = maxTime(dayStart, req.WindowStart)
		if !req.Now.IsZero() {
			dayStart = maxTime(dayStart, req.Now)
		}
		dayEnd = minTime(dayEnd, req.WindowEnd)
		if !dayEnd.After(dayStart) {
			continue
		}

		slots = append(slots, gaps(Interval{Start: dayStart, End: dayEnd}, busy, req.MinDuration)...)
	}
	return slots
}

// gaps sweeps a cursor across the day, emitting the space before each busy
// interval and the tail. busy must be sorted by Start.
func gaps(day Interval, busy []Interval, minDur time.Duration) []Interval {
	var out []Interval
	cursor := day.Start

	emit := func(end time.Time) {
		if end.Sub(cursor) >= minDur && end.After(cursor) {
			out = append(out, Interval{Start: cursor, End: end})
		}
	}

	for _, b := range busy {
		if !b.End.After(day.Start) || !b.Start.Before(day.End) {
			continue
		}
		start := maxTime(b.Start, day.Start)
		end := minTime(b.End, day.End)

		if start.After(cursor) {
			emit(start)
		}
		if end.After(cursor) {
			cursor = end
		}
	}
	emit(day.End)
	return out
}

// normalize drops empty intervals and sorts the rest by start.
func normalize(in []Interval) []Interval {
	out := make([]Interval, 0, len(in))
	for _, b := range in {
		if b.End.After(b.Start) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

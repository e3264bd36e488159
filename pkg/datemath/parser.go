package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser converts relative date strings to absolute time.Time values.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "Europe/Moscow"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// NewParserIn creates a parser bound to an already resolved location.
func NewParserIn(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{location: loc}
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

var absoluteLayouts = []struct {
	layout string
	allDay bool
}{
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{DateLayout, true},
	{"02.01.2006 15:04", false},
	{"02.01.2006", true},
}

var trailingClock = regexp.MustCompile(`^(.*?)\s+(?:at\s+)?(\d{1,2}):(\d{2})$`)

// ParseDateTime accepts RFC3339, common local layouts, and relative phrases
// optionally followed by a clock time ("tomorrow 15:00", "next friday at 9:30").
// Layouts without an offset are interpreted in the parser's timezone.
func (p *Parser) ParseDateTime(value string, baseTime time.Time) (ParseResult, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ParseResult{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return ParseResult{AbsoluteTime: t}, nil
	}
	for _, l := range absoluteLayouts {
		if t, err := time.ParseInLocation(l.layout, value, p.location); err == nil {
			return ParseResult{AbsoluteTime: t, IsAllDay: l.allDay}, nil
		}
	}

	relative := strings.ToLower(value)
	hour, minute, hasClock := -1, 0, false
	if m := trailingClock.FindStringSubmatch(relative); m != nil {
		h, _ := strconv.Atoi(m[2])
		mi, _ := strconv.Atoi(m[3])
		if h > 23 || mi > 59 {
			return ParseResult{}, fmt.Errorf("invalid clock time in %q", value)
		}
		relative, hour, minute, hasClock = m[1], h, mi, true
	}

	if !isRelative(relative) {
		return ParseResult{}, fmt.Errorf("unrecognised date %q", value)
	}
	day, err := p.Parse(relative, baseTime)
	if err != nil {
		return ParseResult{}, err
	}
	if !hasClock {
		return ParseResult{AbsoluteTime: day, IsAllDay: true}, nil
	}
	return ParseResult{
		AbsoluteTime: time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, p.location),
	}, nil
}

func isRelative(s string) bool {
	switch s {
	case "today", "tomorrow", "yesterday":
		return true
	}
	return strings.HasPrefix(s, "in ") || strings.HasPrefix(s, "next ")
}

// Parse converts a relative date string to an absolute time.Time.
// The baseTime is used as the reference point (usually time.Now()).
func (p *Parser) Parse(relative string, baseTime time.Time) (time.Time, error) {
	relative = strings.ToLower(strings.TrimSpace(relative))

	switch relative {
	case "today":
		return p.startOfDay(baseTime), nil
	case "tomorrow":
		return p.startOfDay(baseTime.AddDate(0, 0, 1)), nil
	case "yesterday":
		return p.startOfDay(baseTime.AddDate(0, 0, -1)), nil
	}

	// Handle "in X days/weeks/months"
	if strings.HasPrefix(relative, "in ") {
		return p.parseInDuration(relative, baseTime)
	}

	// Handle "next <weekday>"
	if strings.HasPrefix(relative, "next ") {
		return p.parseNextWeekday(relative, baseTime)
	}

	// Fallback: treat unknown as today
	return p.startOfDay(baseTime), nil
}

var inDurationPattern = regexp.MustCompile(`in (\d+) (day|days|week|weeks|month|months)`)

// parseInDuration handles patterns like "in 3 days", "in 2 weeks", "in 1 month".
func (p *Parser) parseInDuration(relative string, baseTime time.Time) (time.Time, error) {
	matches := inDurationPattern.FindStringSubmatch(relative)
	if len(matches) != 3 {
		return baseTime, fmt.Errorf("invalid duration format: %q", relative)
	}

	amount, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch {
	case strings.HasPrefix(unit, "day"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount)), nil
	case strings.HasPrefix(unit, "week"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount*7)), nil
	case strings.HasPrefix(unit, "month"):
		return p.startOfDay(baseTime.AddDate(0, amount, 0)), nil
	}

	return baseTime, fmt.Errorf("unknown time unit: %q", unit)
}

// parseNextWeekday handles patterns like "next monday", "next friday".
func (p *Parser) parseNextWeekday(relative string, baseTime time.Time) (time.Time, error) {
	weekdays := map[string]time.Weekday{
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
		"sunday":    time.Sunday,
	}

	dayName := strings.TrimPrefix(relative, "next ")
	targetWeekday, ok := weekdays[dayName]
	if !ok {
		return baseTime, fmt.Errorf("unknown weekday: %q", dayName)
	}

	currentWeekday := baseTime.Weekday()
	daysUntil := int(targetWeekday - currentWeekday)
	if daysUntil <= 0 {
		daysUntil += 7
	}

	return p.startOfDay(baseTime.AddDate(0, 0, daysUntil)), nil
}

// startOfDay returns midnight at the start of the given day in the parser's timezone.
func (p *Parser) startOfDay(t time.Time) time.Time {
	return StartOfDay(t, p.location)
}

// EndOfDay returns 23:59:59 on the calendar day of the given start-of-day time.
func (p *Parser) EndOfDay(startOfDay time.Time) time.Time {
	d := startOfDay.In(p.location)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, p.location)
}

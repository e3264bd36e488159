package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"personal-assistant/pkg/datemath"
)

// str returns the first non-empty string value among keys.
func str(data map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := data[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case float64:
			s = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			s = fmt.Sprint(val)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// num reads a number that the model may have sent as a string,
// e.g. "1 500,50".
func num(data map[string]any, key string) (float64, bool) {
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), " ", "")
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func flag(data map[string]any, key string) bool {
	switch v := data[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func strList(data map[string]any, key string) []string {
	var out []string
	switch v := data[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// parseWhen parses a date or date-time in the user's zone. Date-only values
// get defaultHour as their clock time.
func parseWhen(ac actionCtx, value string, defaultHour int) (time.Time, error) {
	res, err := ac.parser.ParseDateTime(value, ac.now)
	if err != nil {
		return time.Time{}, err
	}
	if !res.IsAllDay {
		return res.AbsoluteTime, nil
	}
	d := res.AbsoluteTime.In(ac.loc)
	return time.Date(d.Year(), d.Month(), d.Day(), defaultHour, 0, 0, 0, ac.loc), nil
}

// parseDueDate parses a task due date. Date-only values mean end of that day.
func parseDueDate(ac actionCtx, value string) (time.Time, error) {
	res, err := ac.parser.ParseDateTime(value, ac.now)
	if err != nil {
		return time.Time{}, err
	}
	if res.IsAllDay {
		return ac.parser.EndOfDay(res.AbsoluteTime), nil
	}
	return res.AbsoluteTime, nil
}

// parseDay parses a calendar day and returns its local midnight.
func parseDay(ac actionCtx, value string) (time.Time, error) {
	res, err := ac.parser.ParseDateTime(value, ac.now)
	if err != nil {
		return time.Time{}, err
	}
	return datemath.StartOfDay(res.AbsoluteTime, ac.loc), nil
}

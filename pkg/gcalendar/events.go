package gcalendar

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

const (
	primaryCalendar   = "primary"
	defaultMaxResults = 250
)

func calendarIDOrPrimary(id string) string {
	if id == "" {
		return primaryCalendar
	}
	return id
}

func eventDateTime(t time.Time, tz string) *calendar.EventDateTime {
	return &calendar.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: tz,
	}
}

// CreateEvent creates a new Google Calendar event.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start:       eventDateTime(req.StartTime, req.Timezone),
		End:         eventDateTime(req.EndTime, req.Timezone),
	}

	created, err := c.service.Events.Insert(calendarIDOrPrimary(req.CalendarID), event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	out := convertEvent(created)
	if out.StartTime.IsZero() {
		out.StartTime, out.EndTime = req.StartTime, req.EndTime
	}
	return &out, nil
}

// PatchEvent updates only the fields set in req.
func (c *Client) PatchEvent(ctx context.Context, req PatchEventRequest) (*Event, error) {
	if req.EventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	patch := &calendar.Event{}
	if req.Summary != nil {
		patch.Summary = *req.Summary
	}
	if req.Description != nil {
		patch.Description = *req.Description
	}
	if req.Location != nil {
		patch.Location = *req.Location
	}
	if req.StartTime != nil {
		patch.Start = eventDateTime(*req.StartTime, req.Timezone)
	}
	if req.EndTime != nil {
		patch.End = eventDateTime(*req.EndTime, req.Timezone)
	}

	updated, err := c.service.Events.Patch(calendarIDOrPrimary(req.CalendarID), req.EventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to patch calendar event: %w", err)
	}

	out := convertEvent(updated)
	return &out, nil
}

// DeleteEvent removes an event from the calendar.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}
	if err := c.service.Events.Delete(calendarIDOrPrimary(calendarID), eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

// ListEvents returns single (expanded) events in [TimeMin, TimeMax) ordered by start.
func (c *Client) ListEvents(ctx context.Context, req ListEventsRequest) ([]Event, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	resp, err := c.service.Events.List(calendarIDOrPrimary(req.CalendarID)).
		TimeMin(req.TimeMin.Format(time.RFC3339)).
		TimeMax(req.TimeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Status == "cancelled" {
			continue
		}
		events = append(events, convertEvent(item))
	}
	return events, nil
}

func convertEvent(item *calendar.Event) Event {
	event := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		HtmlLink:    item.HtmlLink,
		Location:    item.Location,
	}
	event.StartTime, event.AllDay = parseEventTime(item.Start)
	event.EndTime, _ = parseEventTime(item.End)
	return event
}

func parseEventTime(dt *calendar.EventDateTime) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, _ := time.Parse(time.RFC3339, dt.DateTime)
		return t, false
	}
	if dt.Date != "" {
		loc := time.UTC
		if dt.TimeZone != "" {
			if l, err := time.LoadLocation(dt.TimeZone); err == nil {
				loc = l
			}
		}
		t, _ := time.ParseInLocation("2006-01-02", dt.Date, loc)
		return t, true
	}
	return time.Time{}, false
}

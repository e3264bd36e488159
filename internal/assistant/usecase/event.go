package usecase

import (
	"context"
	"fmt"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/pkg/gcalendar"
)

// defaultEventHour is the start time of events given as a date only.
const defaultEventHour = 9

func reminderMinutes(data map[string]any) int {
	if m, ok := num(data, "reminder_minutes"); ok && m >= 0 {
		return int(m)
	}
	return model.DefaultReminderMinutes
}

func (uc *implUseCase) createEvent(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	title, rawStart := str(data, "title"), str(data, "start", "start_time", "date")
	if title == "" || rawStart == "" {
		return skipped("event title and start are required")
	}

	start, err := parseWhen(ac, rawStart, defaultEventHour)
	if err != nil {
		return skipped("invalid event start %q: %v", rawStart, err)
	}
	end := start.Add(model.DefaultEventDuration)
	if rawEnd := str(data, "end", "end_time"); rawEnd != "" {
		if e, err := parseWhen(ac, rawEnd, defaultEventHour); err == nil && e.After(start) {
			end = e
		}
	}

	ev, err := uc.repo.CreateEvent(ctx, repository.CreateEventOptions{
		UserID:          ac.user.ID,
		Title:           title,
		Description:     str(data, "description"),
		Location:        str(data, "location"),
		StartAt:         start,
		EndAt:           end,
		ReminderMinutes: reminderMinutes(data),
	})
	if err != nil {
		return failed(err)
	}

	out := map[string]any{
		"id":    ev.ID,
		"title": ev.Title,
		"start": ev.StartAt.Format(time.RFC3339),
		"end":   ev.EndAt.Format(time.RFC3339),
	}

	if id := uc.syncCreatedEvent(ctx, ac, ev); id != "" {
		out["external_id"] = id
	}

	if ev.ReminderMinutes > 0 {
		at := ev.StartAt.Add(-time.Duration(ev.ReminderMinutes) * time.Minute)
		if at.After(ac.now) {
			r, err := uc.repo.CreateReminder(ctx, repository.CreateReminderOptions{
				UserID:   ac.user.ID,
				Text:     fmt.Sprintf("%s at %s", ev.Title, ev.StartAt.In(ac.loc).Format(clockLayout)),
				RemindAt: at,
				EventID:  ev.ID,
			})
			if err != nil {
				uc.l.Warnf(ctx, "assistant.createEvent: reminder for event=%s: %v", ev.ID, err)
			} else {
				out["reminder_id"] = r.ID
			}
		}
	}

	return done(out)
}

// syncCreatedEvent mirrors ev to the external calendar. Failures are logged
// and never fail the action.
func (uc *implUseCase) syncCreatedEvent(ctx context.Context, ac actionCtx, ev model.Event) string {
	if uc.calendar == nil {
		return ""
	}

	created, err := uc.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  uc.calendarID,
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		StartTime:   ev.StartAt,
		EndTime:     ev.EndAt,
		Timezone:    ac.loc.String(),
	})
	if err != nil {
		uc.l.Warnf(ctx, "assistant.createEvent: calendar sync failed (non-fatal): %v", err)
		return ""
	}

	if err := uc.repo.SetEventExternalID(ctx, ev.ID, created.ID); err != nil {
		uc.l.Warnf(ctx, "assistant.createEvent: attach external id to event=%s: %v", ev.ID, err)
		return ""
	}
	return created.ID
}

func (uc *implUseCase) updateEvent(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	title := str(data, "title")
	if title == "" {
		return skipped("event title is required")
	}

	ev, err := uc.repo.FindEvent(ctx, repository.FindOptions{UserID: ac.user.ID, Query: title})
	if err != nil {
		return failed(err)
	}
	if ev.ID == "" {
		return skipped("no event matches %q", title)
	}

	opt := repository.UpdateEventOptions{ID: ev.ID, UserID: ac.user.ID}
	changed := false
	if v := str(data, "new_title"); v != "" {
		opt.Title = &v
		changed = true
	}
	if v := str(data, "description"); v != "" {
		opt.Description = &v
		changed = true
	}
	if v := str(data, "location"); v != "" {
		opt.Location = &v
		changed = true
	}

	newStart, newEnd := ev.StartAt, ev.EndAt
	if raw := str(data, "start", "start_time", "date"); raw != "" {
		start, err := parseWhen(ac, raw, ev.StartAt.In(ac.loc).Hour())
		if err != nil {
			return skipped("invalid event start %q: %v", raw, err)
		}
		// keep the duration when only the start moves
		newStart, newEnd = start, start.Add(ev.EndAt.Sub(ev.StartAt))
		opt.StartAt, opt.EndAt = &newStart, &newEnd
		changed = true
	}
	if raw := str(data, "end", "end_time"); raw != "" {
		end, err := parseWhen(ac, raw, newEnd.In(ac.loc).Hour())
		if err == nil && end.After(newStart) {
			newEnd = end
			opt.StartAt, opt.EndAt = &newStart, &newEnd
			changed = true
		}
	}
	if !changed {
		return skipped("nothing to update on event %q", ev.Title)
	}

	updated, err := uc.repo.UpdateEvent(ctx, opt)
	if err != nil {
		return failed(err)
	}

	if uc.calendar != nil && updated.ExternalID != "" {
		_, err := uc.calendar.PatchEvent(ctx, gcalendar.PatchEventRequest{
			CalendarID:  uc.calendarID,
			EventID:     updated.ExternalID,
			Summary:     opt.Title,
			Description: opt.Description,
			Location:    opt.Location,
			StartTime:   opt.StartAt,
			EndTime:     opt.EndAt,
			Timezone:    ac.loc.String(),
		})
		if err != nil {
			uc.l.Warnf(ctx, "assistant.updateEvent: calendar patch failed (non-fatal): %v", err)
		}
	}

	return done(map[string]any{
		"id":    updated.ID,
		"title": updated.Title,
		"start": updated.StartAt.Format(time.RFC3339),
		"end":   updated.EndAt.Format(time.RFC3339),
	})
}

func (uc *implUseCase) deleteEvent(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	title := str(data, "title", "query")
	if title == "" {
		return skipped("event title is required")
	}

	ev, err := uc.repo.FindEvent(ctx, repository.FindOptions{UserID: ac.user.ID, Query: title})
	if err != nil {
		return failed(err)
	}
	if ev.ID == "" {
		return skipped("no event matches %q", title)
	}

	if err := uc.repo.DeleteEvent(ctx, ac.user.ID, ev.ID); err != nil {
		return failed(err)
	}

	if uc.calendar != nil && ev.ExternalID != "" {
		if err := uc.calendar.DeleteEvent(ctx, uc.calendarID, ev.ExternalID); err != nil {
			uc.l.Warnf(ctx, "assistant.deleteEvent: calendar delete failed (non-fatal): %v", err)
		}
	}
	return done(map[string]any{"id": ev.ID, "title": ev.Title})
}

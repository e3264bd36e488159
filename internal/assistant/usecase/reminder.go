package usecase

import (
	"context"
	"strings"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
)

// defaultReminderHour is used for reminders given as a date only.
const defaultReminderHour = 9

func (uc *implUseCase) createReminder(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	text, raw := str(data, "text", "title", "content"), str(data, "remind_at", "time", "date")
	if text == "" || raw == "" {
		return skipped("reminder text and remind_at are required")
	}

	at, err := parseWhen(ac, raw, defaultReminderHour)
	if err != nil {
		return skipped("invalid remind_at %q: %v", raw, err)
	}

	rec := model.Recurrence(strings.ToLower(str(data, "recurrence", "repeat")))
	if !rec.Valid() {
		uc.l.Warnf(ctx, "assistant.createReminder: unknown recurrence %q, creating one-shot reminder", rec)
		rec = model.RecurrenceNone
	}

	r, err := uc.repo.CreateReminder(ctx, repository.CreateReminderOptions{
		UserID:     ac.user.ID,
		Text:       text,
		RemindAt:   at,
		Recurrence: rec,
	})
	if err != nil {
		return failed(err)
	}
	return done(map[string]any{
		"id":         r.ID,
		"text":       r.Text,
		"remind_at":  r.RemindAt.Format(time.RFC3339),
		"recurrence": string(r.Recurrence),
	})
}

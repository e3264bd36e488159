package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/pkg/currency"
	"personal-assistant/pkg/datemath"
	"personal-assistant/pkg/freeslot"
	"personal-assistant/pkg/gcalendar"
	"personal-assistant/pkg/weather"
)

const (
	listLimit          = 20
	searchLimit        = 10
	defaultMinFreeSlot = 30 * time.Minute
)

func (uc *implUseCase) checkSchedule(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	start := datemath.StartOfDay(ac.now, ac.loc)
	if raw := str(data, "start_date", "date"); raw != "" {
		d, err := parseDay(ac, raw)
		if err != nil {
			return skipped("invalid start_date %q: %v", raw, err)
		}
		start = d
	}
	last := start
	if raw := str(data, "end_date"); raw != "" {
		if d, err := parseDay(ac, raw); err == nil && !d.Before(start) {
			last = d
		}
	}
	end := last.AddDate(0, 0, 1)

	events, source, err := uc.busyEvents(ctx, ac, start, end)
	if err != nil {
		return unavailable("schedule", err)
	}

	var sb strings.Builder
	if last.Equal(start) {
		fmt.Fprintf(&sb, "📅 Schedule for %s:\n", start.Format(dayLayout))
	} else {
		fmt.Fprintf(&sb, "📅 Schedule for %s – %s:\n", start.Format(dayLayout), last.Format(dayLayout))
	}
	if len(events) == 0 {
		sb.WriteString("No events.")
	} else {
		sb.WriteString(formatEvents(events, ac.loc))
	}

	out := map[string]any{"events": len(events), "source": source}

	minutes, hasMin := num(data, "min_duration_minutes")
	if flag(data, "free_slots") || hasMin {
		minDur := defaultMinFreeSlot
		if hasMin && minutes > 0 {
			minDur = time.Duration(minutes) * time.Minute
		}

		busy := make([]freeslot.Interval, 0, len(events))
		for _, e := range events {
			busy = append(busy, freeslot.Interval{Start: e.StartAt, End: e.EndAt})
		}
		slots := freeslot.Find(freeslot.Request{
			WindowStart: start,
			WindowEnd:   end,
			Busy:        busy,
			MinDuration: minDur,
			Now:         ac.now,
			Location:    ac.loc,
		})

		if len(slots) == 0 {
			fmt.Fprintf(&sb, "\n\nNo free slots of at least %s.", formatDuration(minDur))
		} else {
			sb.WriteString("\n\nFree slots:\n")
			sb.WriteString(formatSlots(slots, ac.loc))
		}
		out["free_slots"] = len(slots)
	}

	return answered(sb.String(), out)
}

// busyEvents reads [from, to) from the external calendar, falling back to
// the local store when the calendar is missing or fails.
func (uc *implUseCase) busyEvents(ctx context.Context, ac actionCtx, from, to time.Time) ([]model.Event, string, error) {
	if uc.calendar != nil {
		items, err := uc.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
			CalendarID: uc.calendarID,
			TimeMin:    from,
			TimeMax:    to,
		})
		if err == nil {
			return fromCalendar(items), "calendar", nil
		}
		uc.l.Warnf(ctx, "assistant.checkSchedule: calendar unavailable, using local events: %v", err)
	}

	events, err := uc.repo.ListEvents(ctx, repository.ListEventsOptions{
		UserID: ac.user.ID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, "", err
	}
	return events, "local", nil
}

func fromCalendar(items []gcalendar.Event) []model.Event {
	events := make([]model.Event, 0, len(items))
	for _, it := range items {
		events = append(events, model.Event{
			Title:       it.Summary,
			Description: it.Description,
			Location:    it.Location,
			StartAt:     it.StartTime,
			EndAt:       it.EndTime,
			ExternalID:  it.ID,
		})
	}
	return events
}

func (uc *implUseCase) list(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	entity := strings.ToLower(str(data, "entity", "type"))
	if entity == "" {
		return skipped("list entity is required")
	}
	entity = strings.TrimSuffix(entity, "s") + "s"

	var (
		body  string
		count int
		err   error
	)
	switch entity {
	case "notes":
		var notes []model.Note
		notes, err = uc.repo.ListNotes(ctx, repository.ListNotesOptions{UserID: ac.user.ID, Limit: listLimit})
		count, body = len(notes), formatNotes(notes)
	case "tasks":
		var tasks []model.Task
		tasks, err = uc.repo.ListTasks(ctx, repository.ListTasksOptions{
			UserID:     ac.user.ID,
			Statuses:   []model.TaskStatus{model.TaskStatusPending, model.TaskStatusInProgress},
			ByPriority: true,
			Limit:      listLimit,
		})
		count, body = len(tasks), formatTasks(tasks, ac.loc)
	case "events":
		var events []model.Event
		events, err = uc.repo.ListEvents(ctx, repository.ListEventsOptions{UserID: ac.user.ID, From: ac.now, Limit: listLimit})
		count, body = len(events), formatEvents(events, ac.loc)
	case "reminders":
		var reminders []model.Reminder
		reminders, err = uc.repo.ListReminders(ctx, repository.ListRemindersOptions{UserID: ac.user.ID, OnlyUnsent: true, Limit: listLimit})
		count, body = len(reminders), formatReminders(reminders, ac.loc)
	case "expenses":
		local := ac.now.In(ac.loc)
		from := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, ac.loc)
		var expenses []model.Expense
		expenses, err = uc.repo.ListExpenses(ctx, repository.ListExpensesOptions{UserID: ac.user.ID, From: from, To: from.AddDate(0, 1, 0)})
		count = len(expenses)
		if count > 0 {
			body = formatExpenses(expenses)
		}
	default:
		return skipped("unknown list entity %q", entity)
	}
	if err != nil {
		return failed(err)
	}

	out := map[string]any{"entity": entity, "count": count}
	if count == 0 {
		return answered(fmt.Sprintf("You have no %s.", entity), out)
	}
	return answered(fmt.Sprintf("Your %s:\n%s", entity, body), out)
}

func (uc *implUseCase) search(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	query := str(data, "query", "text")
	if query == "" {
		return skipped("search query is required")
	}

	notes, err := uc.repo.ListNotes(ctx, repository.ListNotesOptions{UserID: ac.user.ID, Query: query, Limit: searchLimit})
	if err != nil {
		return failed(err)
	}
	tasks, err := uc.repo.ListTasks(ctx, repository.ListTasksOptions{UserID: ac.user.ID, Query: query, Limit: searchLimit})
	if err != nil {
		return failed(err)
	}
	events, err := uc.repo.ListEvents(ctx, repository.ListEventsOptions{UserID: ac.user.ID, Query: query, Limit: searchLimit})
	if err != nil {
		return failed(err)
	}

	out := map[string]any{"notes": len(notes), "tasks": len(tasks), "events": len(events)}
	if len(notes)+len(tasks)+len(events) == 0 {
		return answered(fmt.Sprintf("Nothing found for %q.", query), out)
	}

	var sections []string
	if len(notes) > 0 {
		sections = append(sections, "Notes:\n"+formatNotes(notes))
	}
	if len(tasks) > 0 {
		sections = append(sections, "Tasks:\n"+formatTasks(tasks, ac.loc))
	}
	if len(events) > 0 {
		sections = append(sections, "Events:\n"+formatEvents(events, ac.loc))
	}
	return answered(fmt.Sprintf("🔎 Results for %q:\n\n%s", query, strings.Join(sections, "\n\n")), out)
}

func (uc *implUseCase) checkWeather(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	if uc.weather == nil {
		return unavailable("weather", weather.ErrNotConfigured)
	}
	city := str(data, "city", "location")
	if city == "" {
		return skipped("city is required")
	}

	cur, err := uc.weather.Current(ctx, city)
	if err != nil {
		return unavailable("weather", err)
	}

	var forecast *weather.Forecast
	if raw := str(data, "date"); raw != "" {
		if day, err := parseDay(ac, raw); err == nil {
			date := day.Format(datemath.DateLayout)
			if date != datemath.LocalDate(ac.now, ac.loc) {
				fc, err := uc.weather.Forecast(ctx, city, date)
				if err != nil {
					uc.l.Warnf(ctx, "assistant.checkWeather: forecast for %s: %v", date, err)
				} else {
					forecast = &fc
				}
			}
		}
	}

	return answered(weather.Format(cur, forecast), map[string]any{"city": cur.City, "temp": cur.Temp})
}

func (uc *implUseCase) convertCurrency(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	if uc.currency == nil {
		return unavailable("exchange rates", fmt.Errorf("currency service is not configured"))
	}
	amount, ok := num(data, "amount")
	from, to := strings.ToUpper(str(data, "from")), strings.ToUpper(str(data, "to"))
	if !ok || from == "" || to == "" {
		return skipped("amount, from and to are required")
	}

	conv, err := uc.currency.Convert(ctx, amount, from, to)
	if err != nil {
		return unavailable("exchange rates", err)
	}
	return answered(currency.Format(conv), map[string]any{
		"amount": conv.Amount,
		"from":   conv.From,
		"to":     conv.To,
		"result": conv.Result,
	})
}

package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/pkg/freeslot"
)

const (
	dayLayout      = "Mon 02 Jan"
	dateTimeLayout = "Mon 02 Jan 15:04"
	clockLayout    = "15:04"
)

func priorityIcon(p model.TaskPriority) string {
	switch p {
	case model.TaskPriorityUrgent:
		return "🔴"
	case model.TaskPriorityHigh:
		return "🟠"
	case model.TaskPriorityMedium:
		return "🟡"
	default:
		return "⚪"
	}
}

func formatTasks(tasks []model.Task, loc *time.Location) string {
	var sb strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&sb, "%s %s", priorityIcon(t.Priority), t.Title)
		if t.DueAt != nil {
			fmt.Fprintf(&sb, " (due %s)", t.DueAt.In(loc).Format(dateTimeLayout))
		}
		if t.Status == model.TaskStatusInProgress {
			sb.WriteString(" [in progress]")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatEvents(events []model.Event, loc *time.Location) string {
	var sb strings.Builder
	for _, e := range events {
		start, end := e.StartAt.In(loc), e.EndAt.In(loc)
		fmt.Fprintf(&sb, "• %s–%s %s", start.Format(dateTimeLayout), end.Format(clockLayout), e.Title)
		if e.Location != "" {
			fmt.Fprintf(&sb, " @ %s", e.Location)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatNotes(notes []model.Note) string {
	var sb strings.Builder
	for _, n := range notes {
		fmt.Fprintf(&sb, "📝 %s\n", n.Content)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatReminders(reminders []model.Reminder, loc *time.Location) string {
	var sb strings.Builder
	for _, r := range reminders {
		fmt.Fprintf(&sb, "⏰ %s %s", r.RemindAt.In(loc).Format(dateTimeLayout), r.Text)
		if r.Recurrence != model.RecurrenceNone {
			fmt.Fprintf(&sb, " (%s)", r.Recurrence)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatExpenses lists expenses and totals them per currency.
func formatExpenses(expenses []model.Expense) string {
	var sb strings.Builder
	totals := map[string]float64{}
	for _, e := range expenses {
		fmt.Fprintf(&sb, "💸 %s %.2f %s %s", e.SpentOn.Format("02 Jan"), e.Amount, e.Currency, e.Category)
		if e.Description != "" {
			fmt.Fprintf(&sb, " (%s)", e.Description)
		}
		sb.WriteString("\n")
		totals[e.Currency] += e.Amount
	}

	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	parts := make([]string, 0, len(currencies))
	for _, c := range currencies {
		parts = append(parts, fmt.Sprintf("%.2f %s", totals[c], c))
	}
	fmt.Fprintf(&sb, "Total: %s", strings.Join(parts, ", "))
	return sb.String()
}

func formatSlots(slots []freeslot.Interval, loc *time.Location) string {
	var sb strings.Builder
	for _, s := range slots {
		start, end := s.Start.In(loc), s.End.In(loc)
		fmt.Fprintf(&sb, "🟢 %s %s–%s (%s)\n", start.Format(dayLayout), start.Format(clockLayout), end.Format(clockLayout), formatDuration(s.Duration()))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatDuration(d time.Duration) string {
	h, m := int(d.Hours()), int(d.Minutes())%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

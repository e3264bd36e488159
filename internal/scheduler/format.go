package scheduler

import (
	"fmt"
	"strings"
	"time"

	"personal-assistant/internal/model"
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

// formatDigest renders the morning digest. ok is false when there is
// nothing to report.
func formatDigest(day time.Time, events []model.Event, tasks []model.Task, reminders []model.Reminder, loc *time.Location) (string, bool) {
	if len(events) == 0 && len(tasks) == 0 && len(reminders) == 0 {
		return "", false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "☀️ Good morning! Here is your day, %s.\n", day.Format("Monday 02 January"))

	if len(events) > 0 {
		sb.WriteString("\n📅 Events:\n")
		for _, e := range events {
			fmt.Fprintf(&sb, "• %s–%s %s", e.StartAt.In(loc).Format("15:04"), e.EndAt.In(loc).Format("15:04"), e.Title)
			if e.Location != "" {
				fmt.Fprintf(&sb, " @ %s", e.Location)
			}
			sb.WriteString("\n")
		}
	}

	if len(tasks) > 0 {
		sb.WriteString("\n✅ Open tasks:\n")
		for _, t := range tasks {
			fmt.Fprintf(&sb, "%s %s", priorityIcon(t.Priority), t.Title)
			if t.DueAt != nil {
				fmt.Fprintf(&sb, " (due %s)", t.DueAt.In(loc).Format("Mon 02 Jan 15:04"))
			}
			sb.WriteString("\n")
		}
	}

	if len(reminders) > 0 {
		sb.WriteString("\n⏰ Reminders:\n")
		for _, r := range reminders {
			fmt.Fprintf(&sb, "• %s %s\n", r.RemindAt.In(loc).Format("15:04"), r.Text)
		}
	}

	return strings.TrimRight(sb.String(), "\n"), true
}

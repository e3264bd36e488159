package scheduler

import (
	"context"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
)

// Job is one unit of periodic work driven by the Runner.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Lifecycle is implemented by jobs that hold process-scoped state. The
// Runner calls Start before the first tick and Stop after the last one.
type Lifecycle interface {
	Start()
	Stop()
}

// Sender delivers a plain-text notification to a Telegram chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// ReminderStore is the slice of the entity store the reminder job needs.
type ReminderStore interface {
	GetOneUser(ctx context.Context, opt repository.GetOneUserOptions) (model.User, error)
	ListDueReminders(ctx context.Context, opt repository.ListDueRemindersOptions) ([]model.Reminder, error)
	MarkReminderSent(ctx context.Context, id string) (bool, error)
	AdvanceReminder(ctx context.Context, id string, prev, next time.Time) (bool, error)
}

// DigestStore is the slice of the entity store the digest job needs.
type DigestStore interface {
	ListDigestUsers(ctx context.Context) ([]model.User, error)
	ListEvents(ctx context.Context, opt repository.ListEventsOptions) ([]model.Event, error)
	ListTasks(ctx context.Context, opt repository.ListTasksOptions) ([]model.Task, error)
	ListReminders(ctx context.Context, opt repository.ListRemindersOptions) ([]model.Reminder, error)
}

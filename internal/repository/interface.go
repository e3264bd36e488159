package repository

import (
	"context"
	"time"

	"personal-assistant/internal/model"
)

// Repository is the composed interface for the assistant's entity store.
//
// Every method except ListDueReminders and ListDigestUsers is scoped to a
// single user. GetOne*, Find* and Get* return a zero value (ID == "") with a
// nil error when nothing matches.
type Repository interface {
	UserRepository
	SessionRepository
	MessageRepository
	SummaryRepository
	NoteRepository
	TaskRepository
	EventRepository
	ReminderRepository
	ExpenseRepository
}

type UserRepository interface {
	// CreateUser returns ErrAlreadyExists when the Telegram chat is already bound.
	CreateUser(ctx context.Context, opt CreateUserOptions) (model.User, error)
	GetOneUser(ctx context.Context, opt GetOneUserOptions) (model.User, error)
	ListDigestUsers(ctx context.Context) ([]model.User, error)
}

type SessionRepository interface {
	// CreateSession returns ErrAlreadyExists when the user already has an
	// active session on the platform.
	CreateSession(ctx context.Context, opt CreateSessionOptions) (model.Session, error)
	GetOneSession(ctx context.Context, id string) (model.Session, error)
	// GetActiveSession returns the most recently started session with no end time.
	GetActiveSession(ctx context.Context, userID string, platform model.Platform) (model.Session, error)
	EndSession(ctx context.Context, opt EndSessionOptions) (model.Session, error)
	DeleteEndedSessions(ctx context.Context, endedBefore time.Time) (int64, error)
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, opt CreateMessageOptions) (model.Message, error)
	CountMessages(ctx context.Context, sessionID string) (int, error)
	// ListMessages always returns messages in chronological order.
	ListMessages(ctx context.Context, opt ListMessagesOptions) ([]model.Message, error)
}

type SummaryRepository interface {
	// CreateSummary stores a new current summary, demotes older ones and
	// mirrors the text onto the session.
	CreateSummary(ctx context.Context, opt CreateSummaryOptions) (model.Summary, error)
	GetCurrentSummary(ctx context.Context, sessionID string) (model.Summary, error)
}

type NoteRepository interface {
	CreateNote(ctx context.Context, opt CreateNoteOptions) (model.Note, error)
	ListNotes(ctx context.Context, opt ListNotesOptions) ([]model.Note, error)
	// FindNote returns the most recent note whose content contains the query,
	// case-insensitively.
	FindNote(ctx context.Context, opt FindOptions) (model.Note, error)
	DeleteNote(ctx context.Context, userID, id string) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, opt CreateTaskOptions) (model.Task, error)
	ListTasks(ctx context.Context, opt ListTasksOptions) ([]model.Task, error)
	// FindTask returns the most recent task whose title contains the query,
	// case-insensitively.
	FindTask(ctx context.Context, opt FindOptions) (model.Task, error)
	UpdateTask(ctx context.Context, opt UpdateTaskOptions) (model.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
}

type EventRepository interface {
	CreateEvent(ctx context.Context, opt CreateEventOptions) (model.Event, error)
	ListEvents(ctx context.Context, opt ListEventsOptions) ([]model.Event, error)
	// FindEvent returns the most recent event whose title contains the query,
	// case-insensitively.
	FindEvent(ctx context.Context, opt FindOptions) (model.Event, error)
	UpdateEvent(ctx context.Context, opt UpdateEventOptions) (model.Event, error)
	SetEventExternalID(ctx context.Context, id, externalID string) error
	DeleteEvent(ctx context.Context, userID, id string) error
}

type ReminderRepository interface {
	CreateReminder(ctx context.Context, opt CreateReminderOptions) (model.Reminder, error)
	ListReminders(ctx context.Context, opt ListRemindersOptions) ([]model.Reminder, error)
	// ListDueReminders returns unsent reminders with remind_at <= now, across all users.
	ListDueReminders(ctx context.Context, opt ListDueRemindersOptions) ([]model.Reminder, error)
	// MarkReminderSent flips is_sent only if it is still false. The bool
	// reports whether this call won.
	MarkReminderSent(ctx context.Context, id string) (bool, error)
	// AdvanceReminder moves remind_at from prev to next only if it still
	// equals prev. The bool reports whether this call won.
	AdvanceReminder(ctx context.Context, id string, prev, next time.Time) (bool, error)
}

type ExpenseRepository interface {
	CreateExpense(ctx context.Context, opt CreateExpenseOptions) (model.Expense, error)
	ListExpenses(ctx context.Context, opt ListExpensesOptions) ([]model.Expense, error)
}

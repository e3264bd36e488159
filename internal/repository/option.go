package repository

import (
	"time"

	"personal-assistant/internal/model"
)

// --- Users ---

type CreateUserOptions struct {
	Username       string
	TelegramChatID int64
	Timezone       string
	DigestEnabled  bool
	DigestHour     int
}

// GetOneUserOptions filters by the first non-empty field.
type GetOneUserOptions struct {
	ID             string
	TelegramChatID int64
}

// --- Sessions ---

type CreateSessionOptions struct {
	UserID   string
	Platform model.Platform
	Metadata map[string]any
}

type EndSessionOptions struct {
	ID      string
	EndedAt time.Time
	Summary string // optional final summary copied onto the session
}

// --- Messages ---

type CreateMessageOptions struct {
	SessionID string
	Sender    model.Sender
	Content   string
	Type      model.MessageType
	ToolCalls []byte
	Model     string
}

// ListMessagesOptions selects a chronological slice of a session.
// With FromEnd set, Limit counts back from the newest message.
type ListMessagesOptions struct {
	SessionID string
	Limit     int
	Offset    int
	FromEnd   bool
}

// --- Summaries ---

type CreateSummaryOptions struct {
	SessionID string
	Content   string
}

// --- Shared fuzzy lookup ---

// FindOptions drives the case-insensitive substring lookups used to resolve
// "the meeting" or "milk" to a concrete row.
type FindOptions struct {
	UserID string
	Query  string
}

// --- Notes ---

type CreateNoteOptions struct {
	UserID   string
	Content  string
	Category string
}

type ListNotesOptions struct {
	UserID string
	Query  string
	Limit  int
}

// --- Tasks ---

type CreateTaskOptions struct {
	UserID      string
	Title       string
	Description string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	DueAt       *time.Time
	Tags        []string
}

type ListTasksOptions struct {
	UserID   string
	Statuses []model.TaskStatus
	Query    string
	Limit    int
	// ByPriority orders urgent first, then by due date.
	ByPriority bool
}

// UpdateTaskOptions patches only the non-nil fields.
type UpdateTaskOptions struct {
	ID       string
	UserID   string
	Title    *string
	Status   *model.TaskStatus
	Priority *model.TaskPriority
	DueAt    *time.Time
}

// --- Events ---

type CreateEventOptions struct {
	UserID          string
	Title           string
	Description     string
	Location        string
	StartAt         time.Time
	EndAt           time.Time
	ReminderMinutes int
}

// ListEventsOptions selects events overlapping [From, To).
type ListEventsOptions struct {
	UserID string
	From   time.Time
	To     time.Time
	Query  string
	Limit  int
}

// UpdateEventOptions patches only the non-nil fields.
type UpdateEventOptions struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	Location    *string
	StartAt     *time.Time
	EndAt       *time.Time
}

// --- Reminders ---

type CreateReminderOptions struct {
	UserID     string
	Text       string
	RemindAt   time.Time
	Recurrence model.Recurrence
	EventID    string
}

// ListRemindersOptions selects a user's reminders with remind_at in [From, To).
// Zero bounds are open.
type ListRemindersOptions struct {
	UserID     string
	From       time.Time
	To         time.Time
	OnlyUnsent bool
	Limit      int
}

// ListDueRemindersOptions pages through unsent reminders with remind_at <= Now,
// ordered by (remind_at, id). A non-empty AfterID resumes strictly after the
// (AfterAt, AfterID) cursor.
type ListDueRemindersOptions struct {
	Now     time.Time
	AfterAt time.Time
	AfterID string
	Limit   int
}

// --- Expenses ---

type CreateExpenseOptions struct {
	UserID      string
	Amount      float64
	Currency    string
	Category    string
	Description string
	SpentOn     time.Time
}

type ListExpensesOptions struct {
	UserID string
	From   time.Time
	To     time.Time
	Limit  int
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"personal-assistant/internal/intent"
	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/internal/session"
	"personal-assistant/pkg/gcalendar"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

var (
	testNow   = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) // Monday
	errStore  = errors.New("store down")
	errRemote = errors.New("remote down")
)

// fakeStore is an in-memory Store. Slices keep insertion order.
type fakeStore struct {
	mu        sync.Mutex
	seq       int
	users     []model.User
	notes     []model.Note
	tasks     []model.Task
	events    []model.Event
	reminders []model.Reminder
	expenses  []model.Expense

	failCreateNote bool
	failListEvents bool

	// staleUserReads makes the next chat id lookups miss, as a read racing
	// another request's insert would.
	staleUserReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func contains(s, q string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(q))
}

func (f *fakeStore) CreateUser(ctx context.Context, opt repository.CreateUserOptions) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if opt.TelegramChatID != 0 && u.TelegramChatID == opt.TelegramChatID {
			return model.User{}, repository.ErrAlreadyExists
		}
	}
	u := model.User{
		ID:             f.nextID("user"),
		Username:       opt.Username,
		TelegramChatID: opt.TelegramChatID,
		Timezone:       opt.Timezone,
		DigestEnabled:  opt.DigestEnabled,
		DigestHour:     opt.DigestHour,
		IsActive:       true,
	}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeStore) GetOneUser(ctx context.Context, opt repository.GetOneUserOptions) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if opt.ID == "" && f.staleUserReads > 0 {
		f.staleUserReads--
		return model.User{}, nil
	}
	for _, u := range f.users {
		if (opt.ID != "" && u.ID == opt.ID) || (opt.ID == "" && opt.TelegramChatID != 0 && u.TelegramChatID == opt.TelegramChatID) {
			return u, nil
		}
	}
	return model.User{}, nil
}

func (f *fakeStore) ListDigestUsers(ctx context.Context) ([]model.User, error) {
	return nil, nil
}

func (f *fakeStore) CreateNote(ctx context.Context, opt repository.CreateNoteOptions) (model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateNote {
		return model.Note{}, errStore
	}
	n := model.Note{ID: f.nextID("note"), UserID: opt.UserID, Content: opt.Content, Category: opt.Category}
	f.notes = append(f.notes, n)
	return n, nil
}

func (f *fakeStore) ListNotes(ctx context.Context, opt repository.ListNotesOptions) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Note
	for _, n := range f.notes {
		if n.UserID == opt.UserID && contains(n.Content, opt.Query) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) FindNote(ctx context.Context, opt repository.FindOptions) (model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.notes) - 1; i >= 0; i-- {
		if n := f.notes[i]; n.UserID == opt.UserID && contains(n.Content, opt.Query) {
			return n, nil
		}
	}
	return model.Note{}, nil
}

func (f *fakeStore) DeleteNote(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notes {
		if n.ID == id && n.UserID == userID {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) CreateTask(ctx context.Context, opt repository.CreateTaskOptions) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := model.Task{
		ID:          f.nextID("task"),
		UserID:      opt.UserID,
		Title:       opt.Title,
		Description: opt.Description,
		Status:      opt.Status,
		Priority:    opt.Priority,
		DueAt:       opt.DueAt,
		Tags:        opt.Tags,
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeStore) ListTasks(ctx context.Context, opt repository.ListTasksOptions) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Task
	for _, t := range f.tasks {
		if t.UserID != opt.UserID || !contains(t.Title, opt.Query) {
			continue
		}
		if len(opt.Statuses) > 0 && !t.Status.Open() {
			continue
		}
		out = append(out, t)
	}
	if opt.ByPriority {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority.Rank() < out[j].Priority.Rank() })
	}
	return out, nil
}

func (f *fakeStore) FindTask(ctx context.Context, opt repository.FindOptions) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.tasks) - 1; i >= 0; i-- {
		if t := f.tasks[i]; t.UserID == opt.UserID && contains(t.Title, opt.Query) {
			return t, nil
		}
	}
	return model.Task{}, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, opt repository.UpdateTaskOptions) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		t := &f.tasks[i]
		if t.ID != opt.ID {
			continue
		}
		if opt.Title != nil {
			t.Title = *opt.Title
		}
		if opt.Status != nil {
			t.Status = *opt.Status
		}
		if opt.Priority != nil {
			t.Priority = *opt.Priority
		}
		if opt.DueAt != nil {
			t.DueAt = opt.DueAt
		}
		return *t, nil
	}
	return model.Task{}, repository.ErrFailedToUpdate
}

func (f *fakeStore) DeleteTask(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, opt repository.CreateEventOptions) (model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := model.Event{
		ID:              f.nextID("event"),
		UserID:          opt.UserID,
		Title:           opt.Title,
		Description:     opt.Description,
		Location:        opt.Location,
		StartAt:         opt.StartAt,
		EndAt:           opt.EndAt,
		ReminderMinutes: opt.ReminderMinutes,
	}
	f.events = append(f.events, e)
	return e, nil
}

func (f *fakeStore) ListEvents(ctx context.Context, opt repository.ListEventsOptions) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListEvents {
		return nil, errStore
	}
	var out []model.Event
	for _, e := range f.events {
		if e.UserID != opt.UserID || !contains(e.Title, opt.Query) {
			continue
		}
		if !opt.To.IsZero() && !e.StartAt.Before(opt.To) {
			continue
		}
		if !opt.From.IsZero() && !e.EndAt.After(opt.From) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) FindEvent(ctx context.Context, opt repository.FindOptions) (model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if e := f.events[i]; e.UserID == opt.UserID && contains(e.Title, opt.Query) {
			return e, nil
		}
	}
	return model.Event{}, nil
}

func (f *fakeStore) UpdateEvent(ctx context.Context, opt repository.UpdateEventOptions) (model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.events {
		e := &f.events[i]
		if e.ID != opt.ID {
			continue
		}
		if opt.Title != nil {
			e.Title = *opt.Title
		}
		if opt.Description != nil {
			e.Description = *opt.Description
		}
		if opt.Location != nil {
			e.Location = *opt.Location
		}
		if opt.StartAt != nil {
			e.StartAt = *opt.StartAt
		}
		if opt.EndAt != nil {
			e.EndAt = *opt.EndAt
		}
		return *e, nil
	}
	return model.Event{}, repository.ErrFailedToUpdate
}

func (f *fakeStore) SetEventExternalID(ctx context.Context, id, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i].ExternalID = externalID
		}
	}
	return nil
}

func (f *fakeStore) DeleteEvent(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.events {
		if e.ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) CreateReminder(ctx context.Context, opt repository.CreateReminderOptions) (model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := model.Reminder{
		ID:         f.nextID("reminder"),
		UserID:     opt.UserID,
		Text:       opt.Text,
		RemindAt:   opt.RemindAt,
		Recurrence: opt.Recurrence,
		EventID:    opt.EventID,
	}
	f.reminders = append(f.reminders, r)
	return r, nil
}

func (f *fakeStore) ListReminders(ctx context.Context, opt repository.ListRemindersOptions) ([]model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reminder
	for _, r := range f.reminders {
		if r.UserID == opt.UserID && (!opt.OnlyUnsent || !r.IsSent) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDueReminders(ctx context.Context, opt repository.ListDueRemindersOptions) ([]model.Reminder, error) {
	return nil, nil
}

func (f *fakeStore) MarkReminderSent(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (f *fakeStore) AdvanceReminder(ctx context.Context, id string, prev, next time.Time) (bool, error) {
	return false, nil
}

func (f *fakeStore) CreateExpense(ctx context.Context, opt repository.CreateExpenseOptions) (model.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := model.Expense{
		ID:          f.nextID("expense"),
		UserID:      opt.UserID,
		Amount:      opt.Amount,
		Currency:    opt.Currency,
		Category:    opt.Category,
		Description: opt.Description,
		SpentOn:     opt.SpentOn,
	}
	f.expenses = append(f.expenses, e)
	return e, nil
}

func (f *fakeStore) ListExpenses(ctx context.Context, opt repository.ListExpensesOptions) ([]model.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Expense
	for _, e := range f.expenses {
		if e.UserID == opt.UserID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeSessions records the calls ProcessMessage makes.
type fakeSessions struct {
	mu        sync.Mutex
	calls     []string
	window    session.Window
	messages  []session.AddMessageInput
	triggered int
	failGet   bool
}

func (f *fakeSessions) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSessions) GetOrCreateSession(ctx context.Context, userID string, platform model.Platform, metadata map[string]any) (model.Session, error) {
	f.record("get")
	if f.failGet {
		return model.Session{}, errStore
	}
	return model.Session{ID: "session-1", UserID: userID, Platform: platform}, nil
}

func (f *fakeSessions) AddMessage(ctx context.Context, input session.AddMessageInput) (model.Message, error) {
	f.record("add:" + string(input.Sender))
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, input)
	return model.Message{ID: fmt.Sprintf("m%d", len(f.messages)), SessionID: input.SessionID}, nil
}

func (f *fakeSessions) BuildWindow(ctx context.Context, sessionID string, recentSize int) (session.Window, error) {
	f.record("window")
	return f.window, nil
}

func (f *fakeSessions) GenerateSummary(ctx context.Context, sessionID string, recentSize int) error {
	return nil
}

func (f *fakeSessions) TriggerSummary(sessionID string, recentSize int) {
	f.record("summary")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered++
}

func (f *fakeSessions) Wait() {}

func (f *fakeSessions) EndSession(ctx context.Context, sessionID, summary string) (model.Session, error) {
	return model.Session{}, nil
}

func (f *fakeSessions) CleanupEndedSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

type fakeExtractor struct {
	result intent.Result
	err    error
	last   intent.Input
}

func (f *fakeExtractor) Extract(ctx context.Context, input intent.Input) (intent.Result, error) {
	f.last = input
	return f.result, f.err
}

type fakeCalendar struct {
	created []gcalendar.CreateEventRequest
	patched []gcalendar.PatchEventRequest
	deleted []string
	listed  []gcalendar.Event
	err     error
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &gcalendar.Event{ID: fmt.Sprintf("gcal-%d", len(f.created)), Summary: req.Summary}, nil
}

func (f *fakeCalendar) PatchEvent(ctx context.Context, req gcalendar.PatchEventRequest) (*gcalendar.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.patched = append(f.patched, req)
	return &gcalendar.Event{ID: req.EventID}, nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeCalendar) ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listed, nil
}

type testEnv struct {
	uc       *implUseCase
	store    *fakeStore
	sessions *fakeSessions
	intent   *fakeExtractor
	user     model.User
}

func newTestEnv(opt Options, actions ...model.Action) *testEnv {
	store := newFakeStore()
	user, _ := store.CreateUser(context.Background(), repository.CreateUserOptions{
		Username:       "alice",
		TelegramChatID: 42,
		Timezone:       "UTC",
	})
	sessions := &fakeSessions{}
	extractor := &fakeExtractor{result: intent.Result{Reply: "Done!", Actions: actions, Model: "fake-model"}}

	uc := New(&mockLogger{}, store, sessions, extractor, opt)
	uc.now = func() time.Time { return testNow }

	return &testEnv{uc: uc, store: store, sessions: sessions, intent: extractor, user: user}
}

func act(t model.ActionType, kv ...any) model.Action {
	data := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		data[kv[i].(string)] = kv[i+1]
	}
	return model.Action{Type: t, Data: data}
}

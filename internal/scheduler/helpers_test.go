package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
)

// ── Mocks ──────────────────────────────────────────────────────────────────

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

// fakeStore keeps entities in memory and honours the compare-and-set
// contract of the reminder writes.
type fakeStore struct {
	mu        sync.Mutex
	users     map[string]model.User
	reminders map[string]*model.Reminder
	events    []model.Event
	tasks     []model.Task

	failList bool
	dueCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]model.User{},
		reminders: map[string]*model.Reminder{},
	}
}

func (s *fakeStore) addUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *fakeStore) addReminder(r model.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders[r.ID] = &r
}

func (s *fakeStore) reminder(id string) model.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.reminders[id]
}

func (s *fakeStore) GetOneUser(ctx context.Context, opt repository.GetOneUserOptions) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[opt.ID], nil
}

func (s *fakeStore) ListDueReminders(ctx context.Context, opt repository.ListDueRemindersOptions) ([]model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, errors.New("db down")
	}
	s.dueCalls++
	var out []model.Reminder
	for _, r := range s.reminders {
		if r.IsSent || r.RemindAt.After(opt.Now) {
			continue
		}
		if opt.AfterID != "" && !keyAfter(r.RemindAt, r.ID, opt.AfterAt, opt.AfterID) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return keyAfter(out[j].RemindAt, out[j].ID, out[i].RemindAt, out[i].ID) })
	if opt.Limit > 0 && len(out) > opt.Limit {
		out = out[:opt.Limit]
	}
	return out, nil
}

// keyAfter reports whether (at, id) sorts strictly after (afterAt, afterID).
func keyAfter(at time.Time, id string, afterAt time.Time, afterID string) bool {
	if !at.Equal(afterAt) {
		return at.After(afterAt)
	}
	return id > afterID
}

func (s *fakeStore) MarkReminderSent(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok || r.IsSent {
		return false, nil
	}
	r.IsSent = true
	return true, nil
}

func (s *fakeStore) AdvanceReminder(ctx context.Context, id string, prev, next time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok || r.IsSent || !r.RemindAt.Equal(prev) {
		return false, nil
	}
	r.RemindAt = next
	return true, nil
}

func (s *fakeStore) ListDigestUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, errors.New("db down")
	}
	var out []model.User
	for _, u := range s.users {
		if u.DigestEnabled && u.IsActive && u.Reachable() {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) ListEvents(ctx context.Context, opt repository.ListEventsOptions) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.events {
		if e.UserID == opt.UserID && e.StartAt.Before(opt.To) && e.EndAt.After(opt.From) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) ListTasks(ctx context.Context, opt repository.ListTasksOptions) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for _, t := range s.tasks {
		if t.UserID == opt.UserID && t.Status.Open() {
			out = append(out, t)
		}
	}
	if opt.ByPriority {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority.Rank() < out[j].Priority.Rank() })
	}
	if opt.Limit > 0 && len(out) > opt.Limit {
		out = out[:opt.Limit]
	}
	return out, nil
}

func (s *fakeStore) ListReminders(ctx context.Context, opt repository.ListRemindersOptions) ([]model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reminder
	for _, r := range s.reminders {
		if r.UserID != opt.UserID || (opt.OnlyUnsent && r.IsSent) {
			continue
		}
		if !opt.From.IsZero() && r.RemindAt.Before(opt.From) {
			continue
		}
		if !opt.To.IsZero() && !r.RemindAt.Before(opt.To) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error

	// blocked chats always fail, as when a user blocks the bot.
	blocked map[int64]error
}

func (f *fakeSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if err, ok := f.blocked[chatID]; ok {
		return err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

// ── Test Helpers ───────────────────────────────────────────────────────────

var testNow = time.Date(2026, 10, 19, 8, 2, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func reachableUser(id string, chatID int64) model.User {
	return model.User{
		ID:             id,
		TelegramChatID: chatID,
		Timezone:       "UTC",
		DigestEnabled:  true,
		DigestHour:     8,
		IsActive:       true,
	}
}

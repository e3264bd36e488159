package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/pkg/llmprovider"
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

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu        sync.Mutex
	sessions  map[string]model.Session
	messages  map[string][]model.Message
	summaries map[string][]model.Summary
	seq       int
	failList  bool
	deleted   time.Time

	// activeGate, when set, holds the first two GetActiveSession calls
	// until both have read, so both see no active session.
	activeGate  *sync.WaitGroup
	gatedReads  int
	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:  map[string]model.Session{},
		messages:  map[string][]model.Message{},
		summaries: map[string][]model.Summary{},
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

// seed appends n alternating user/assistant messages numbered from 1.
func (f *fakeStore) seed(sessionID string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	base := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		sender := model.SenderUser
		if i%2 == 0 {
			sender = model.SenderAssistant
		}
		f.messages[sessionID] = append(f.messages[sessionID], model.Message{
			ID:        f.nextID("msg"),
			SessionID: sessionID,
			Sender:    sender,
			Content:   fmt.Sprintf("m%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func (f *fakeStore) CreateSession(ctx context.Context, opt repository.CreateSessionOptions) (model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	for _, s := range f.sessions {
		if s.UserID == opt.UserID && s.Platform == opt.Platform && s.Active() {
			return model.Session{}, repository.ErrAlreadyExists
		}
	}
	s := model.Session{
		ID:        f.nextID("sess"),
		UserID:    opt.UserID,
		Platform:  opt.Platform,
		StartedAt: time.Now(),
		Metadata:  opt.Metadata,
	}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetOneSession(ctx context.Context, id string) (model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id], nil
}

func (f *fakeStore) GetActiveSession(ctx context.Context, userID string, platform model.Platform) (model.Session, error) {
	f.mu.Lock()
	var best model.Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.Platform == platform && s.Active() && s.StartedAt.After(best.StartedAt) {
			best = s
		}
	}
	gate := f.activeGate
	if gate != nil {
		f.gatedReads++
		if f.gatedReads > 2 {
			gate = nil
		}
	}
	f.mu.Unlock()

	if gate != nil {
		gate.Done()
		gate.Wait()
	}
	return best, nil
}

func (f *fakeStore) EndSession(ctx context.Context, opt repository.EndSessionOptions) (model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[opt.ID]
	if !ok {
		return model.Session{}, nil
	}
	ended := opt.EndedAt
	s.EndedAt = &ended
	if opt.Summary != "" {
		s.CurrentSummary = opt.Summary
	}
	f.sessions[opt.ID] = s
	return s, nil
}

func (f *fakeStore) DeleteEndedSessions(ctx context.Context, endedBefore time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = endedBefore
	var n int64
	for id, s := range f.sessions {
		if s.EndedAt != nil && s.EndedAt.Before(endedBefore) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateMessage(ctx context.Context, opt repository.CreateMessageOptions) (model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := model.Message{
		ID:        f.nextID("msg"),
		SessionID: opt.SessionID,
		Sender:    opt.Sender,
		Content:   opt.Content,
		Type:      opt.Type,
		ToolCalls: opt.ToolCalls,
		Model:     opt.Model,
		CreatedAt: time.Now(),
	}
	f.messages[opt.SessionID] = append(f.messages[opt.SessionID], m)
	return m, nil
}

func (f *fakeStore) CountMessages(ctx context.Context, sessionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[sessionID]), nil
}

func (f *fakeStore) ListMessages(ctx context.Context, opt repository.ListMessagesOptions) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, repository.ErrFailedToList
	}
	all := f.messages[opt.SessionID]
	if opt.FromEnd {
		start := 0
		if opt.Limit > 0 && opt.Limit < len(all) {
			start = len(all) - opt.Limit
		}
		return append([]model.Message(nil), all[start:]...), nil
	}
	end := len(all)
	if opt.Limit > 0 && opt.Limit < end {
		end = opt.Limit
	}
	return append([]model.Message(nil), all[:end]...), nil
}

func (f *fakeStore) CreateSummary(ctx context.Context, opt repository.CreateSummaryOptions) (model.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.summaries[opt.SessionID]
	for i := range list {
		list[i].IsCurrent = false
	}
	s := model.Summary{ID: f.nextID("sum"), SessionID: opt.SessionID, Content: opt.Content, IsCurrent: true}
	f.summaries[opt.SessionID] = append(list, s)
	return s, nil
}

func (f *fakeStore) GetCurrentSummary(ctx context.Context, sessionID string) (model.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.summaries[sessionID] {
		if s.IsCurrent {
			return s, nil
		}
	}
	return model.Summary{}, nil
}

// fakeLLM records requests and returns a canned reply.
type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	reqs    []*llmprovider.Request
	reply   string
	err     error
	release chan struct{}
}

func (f *fakeLLM) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llmprovider.Response{Content: llmprovider.TextMessage(llmprovider.RoleAssistant, f.reply)}, nil
}

var errLLMDown = errors.New("llm down")

func newTestUseCase(store *fakeStore, llm *fakeLLM) *implUseCase {
	uc := New(&mockLogger{}, store, llm)
	uc.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return uc
}

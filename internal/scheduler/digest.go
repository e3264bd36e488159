package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/pkg/datemath"
	pkgLog "personal-assistant/pkg/log"
)

const (
	defaultDigestTolerance = 5
	digestTaskLimit        = 10
)

type digestKey struct {
	UserID string
	Date   string
}

// DigestJob sends each user a morning summary once per local day.
// The sent-set lives only between Start and Stop.
type DigestJob struct {
	l         pkgLog.Logger
	store     DigestStore
	sender    Sender
	tolerance int
	now       func() time.Time

	mu sync.Mutex
	// sent maps each delivered (user, local date) to the user's location,
	// so stale dates can be pruned without the user being listed again.
	sent map[digestKey]*time.Location
}

// NewDigestJob creates the digest job. toleranceMinutes <= 0 means 5.
func NewDigestJob(l pkgLog.Logger, store DigestStore, sender Sender, toleranceMinutes int) *DigestJob {
	if toleranceMinutes <= 0 {
		toleranceMinutes = defaultDigestTolerance
	}
	return &DigestJob{
		l:         l,
		store:     store,
		sender:    sender,
		tolerance: toleranceMinutes,
		now:       time.Now,
	}
}

func (j *DigestJob) Name() string { return "digest" }

func (j *DigestJob) Start() {
	j.mu.Lock()
	j.sent = make(map[digestKey]*time.Location)
	j.mu.Unlock()
}

func (j *DigestJob) Stop() {
	j.mu.Lock()
	j.sent = nil
	j.mu.Unlock()
}

// Run checks every digest subscriber once.
func (j *DigestJob) Run(ctx context.Context) error {
	users, err := j.store.ListDigestUsers(ctx)
	if err != nil {
		return fmt.Errorf("list digest users: %w", err)
	}

	now := j.now()
	j.prune(now)
	for _, u := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !u.IsActive || !u.Reachable() || !u.DigestEnabled {
			continue
		}

		loc := datemath.LoadLocation(u.Timezone)
		local := now.In(loc)
		if local.Hour() != u.DigestHour || local.Minute() > j.tolerance {
			continue
		}

		key := digestKey{UserID: u.ID, Date: datemath.LocalDate(now, loc)}
		if j.seen(key) {
			continue
		}

		sent, err := j.sendDigest(ctx, u, loc, now)
		if err != nil {
			j.l.Errorf(ctx, "DigestJob.Run: user %s: %v", u.ID, err)
			continue
		}
		if sent {
			j.record(key, loc)
		}
	}
	return nil
}

// sendDigest builds and sends one user's digest. An empty digest is not sent
// and not recorded.
func (j *DigestJob) sendDigest(ctx context.Context, u model.User, loc *time.Location, now time.Time) (bool, error) {
	dayStart, dayEnd := datemath.DayBounds(now, loc)

	events, err := j.store.ListEvents(ctx, repository.ListEventsOptions{
		UserID: u.ID,
		From:   dayStart,
		To:     dayEnd,
	})
	if err != nil {
		return false, fmt.Errorf("list events: %w", err)
	}

	tasks, err := j.store.ListTasks(ctx, repository.ListTasksOptions{
		UserID:     u.ID,
		Statuses:   []model.TaskStatus{model.TaskStatusPending, model.TaskStatusInProgress},
		Limit:      digestTaskLimit,
		ByPriority: true,
	})
	if err != nil {
		return false, fmt.Errorf("list tasks: %w", err)
	}

	reminders, err := j.store.ListReminders(ctx, repository.ListRemindersOptions{
		UserID:     u.ID,
		From:       dayStart,
		To:         dayEnd,
		OnlyUnsent: true,
	})
	if err != nil {
		return false, fmt.Errorf("list reminders: %w", err)
	}

	text, ok := formatDigest(now.In(loc), events, tasks, reminders, loc)
	if !ok {
		j.l.Debugf(ctx, "DigestJob.sendDigest: nothing to report for user %s", u.ID)
		return false, nil
	}

	if err := j.sender.SendMessage(ctx, u.TelegramChatID, text); err != nil {
		return false, fmt.Errorf("send: %w", err)
	}
	j.l.Infof(ctx, "DigestJob.sendDigest: sent to user %s", u.ID)
	return true, nil
}

func (j *DigestJob) seen(key digestKey) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, ok := j.sent[key]
	return ok
}

func (j *DigestJob) record(key digestKey, loc *time.Location) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.sent == nil {
		j.sent = make(map[digestKey]*time.Location)
	}
	j.sent[key] = loc
}

// prune drops every key whose date is no longer the owner's local today,
// including users that have since left the subscriber list.
func (j *DigestJob) prune(now time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for k, loc := range j.sent {
		if k.Date != datemath.LocalDate(now, loc) {
			delete(j.sent, k)
		}
	}
}

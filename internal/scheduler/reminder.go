package scheduler

import (
	"context"
	"fmt"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	pkgLog "personal-assistant/pkg/log"
)

const defaultReminderBatch = 100

// ReminderJob delivers due reminders. Delivery is at least once: a failed
// send leaves the row untouched and the next tick retries it.
type ReminderJob struct {
	l      pkgLog.Logger
	store  ReminderStore
	sender Sender
	batch  int
	now    func() time.Time
}

// NewReminderJob creates the reminder delivery job.
func NewReminderJob(l pkgLog.Logger, store ReminderStore, sender Sender) *ReminderJob {
	return &ReminderJob{
		l:      l,
		store:  store,
		sender: sender,
		batch:  defaultReminderBatch,
		now:    time.Now,
	}
}

func (j *ReminderJob) Name() string { return "reminders" }

// Run delivers every reminder that is due at the start of the tick. Rows are
// read in pages ordered by (remind_at, id), so rows whose sends keep failing
// cannot hide newer ones behind them.
func (j *ReminderJob) Run(ctx context.Context) error {
	opt := repository.ListDueRemindersOptions{Now: j.now(), Limit: j.batch}
	seen := make(map[string]struct{})
	total, delivered := 0, 0

	for {
		page, err := j.store.ListDueReminders(ctx, opt)
		if err != nil {
			return fmt.Errorf("list due reminders: %w", err)
		}

		for _, r := range page {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A late recurring reminder may still be due after advancing.
			// It gets its next send on the next tick.
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			total++
			if j.deliver(ctx, r) {
				delivered++
			}
		}

		if len(page) == 0 || opt.Limit <= 0 || len(page) < opt.Limit {
			break
		}
		last := page[len(page)-1]
		opt.AfterAt, opt.AfterID = last.RemindAt, last.ID
	}

	if total > 0 {
		j.l.Infof(ctx, "ReminderJob.Run: %d due, %d delivered", total, delivered)
	}
	return nil
}

// deliver sends one reminder and records the outcome. It reports whether a
// message went out.
func (j *ReminderJob) deliver(ctx context.Context, r model.Reminder) bool {
	user, err := j.store.GetOneUser(ctx, repository.GetOneUserOptions{ID: r.UserID})
	if err != nil {
		j.l.Errorf(ctx, "ReminderJob.deliver: load user %s: %v", r.UserID, err)
		return false
	}

	// Nobody to notify; retire the row so it stops coming back.
	if user.ID == "" || !user.Reachable() {
		j.l.Warnf(ctx, "ReminderJob.deliver: reminder %s has no reachable owner, marking sent", r.ID)
		j.markSent(ctx, r)
		return false
	}

	if err := j.sender.SendMessage(ctx, user.TelegramChatID, reminderText(r)); err != nil {
		j.l.Errorf(ctx, "ReminderJob.deliver: send reminder %s: %v", r.ID, err)
		return false
	}

	if next, ok := r.Recurrence.Next(r.RemindAt); ok {
		won, err := j.store.AdvanceReminder(ctx, r.ID, r.RemindAt, next)
		if err != nil {
			j.l.Errorf(ctx, "ReminderJob.deliver: advance reminder %s: %v", r.ID, err)
		} else if !won {
			j.l.Debugf(ctx, "ReminderJob.deliver: reminder %s already advanced", r.ID)
		}
		return true
	}

	j.markSent(ctx, r)
	return true
}

func (j *ReminderJob) markSent(ctx context.Context, r model.Reminder) {
	won, err := j.store.MarkReminderSent(ctx, r.ID)
	if err != nil {
		j.l.Errorf(ctx, "ReminderJob.markSent: reminder %s: %v", r.ID, err)
		return
	}
	if !won {
		j.l.Debugf(ctx, "ReminderJob.markSent: reminder %s already sent", r.ID)
	}
}

func reminderText(r model.Reminder) string {
	if r.Recurrence != model.RecurrenceNone {
		return fmt.Sprintf("⏰ Reminder: %s (%s)", r.Text, r.Recurrence)
	}
	return "⏰ Reminder: " + r.Text
}

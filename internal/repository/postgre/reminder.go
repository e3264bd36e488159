package postgre

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"personal-assistant/internal/model"
	repo "personal-assistant/internal/repository"
)

const reminderColumns = `id, user_id, text, remind_at, is_sent, recurrence, event_id, created_at`

func scanReminder(row interface{ Scan(...any) error }) (model.Reminder, error) {
	var (
		rm         model.Reminder
		recurrence string
		eventID    sql.NullString
	)
	if err := row.Scan(&rm.ID, &rm.UserID, &rm.Text, &rm.RemindAt, &rm.IsSent, &recurrence, &eventID, &rm.CreatedAt); err != nil {
		return model.Reminder{}, err
	}
	rm.Recurrence = model.Recurrence(recurrence)
	rm.EventID = eventID.String
	return rm, nil
}

func (r *implRepository) CreateReminder(ctx context.Context, opt repo.CreateReminderOptions) (model.Reminder, error) {
	query := `
		INSERT INTO reminders (id, user_id, text, remind_at, recurrence, event_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reminderColumns

	rm, err := scanReminder(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), opt.UserID, opt.Text, opt.RemindAt, string(opt.Recurrence), nullString(opt.EventID)))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateReminder"), err)
		return model.Reminder{}, repo.ErrFailedToInsert
	}
	return rm, nil
}

func (r *implRepository) ListReminders(ctx context.Context, opt repo.ListRemindersOptions) ([]model.Reminder, error) {
	var b whereBuilder
	b.add("user_id = ?", opt.UserID)
	if !opt.From.IsZero() {
		b.add("remind_at >= ?", opt.From)
	}
	if !opt.To.IsZero() {
		b.add("remind_at < ?", opt.To)
	}
	if opt.OnlyUnsent {
		b.add("NOT is_sent")
	}

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE ` + b.clause() + ` ORDER BY remind_at ASC`
	if opt.Limit > 0 {
		query += " LIMIT " + b.arg(opt.Limit)
	}
	return r.queryReminders(ctx, "ListReminders", query, b.args...)
}

func (r *implRepository) ListDueReminders(ctx context.Context, opt repo.ListDueRemindersOptions) ([]model.Reminder, error) {
	var b whereBuilder
	b.add("NOT is_sent")
	b.add("remind_at <= ?", opt.Now)
	if opt.AfterID != "" {
		b.add("(remind_at, id) > (?, ?::uuid)", opt.AfterAt, opt.AfterID)
	}

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE ` + b.clause() + ` ORDER BY remind_at ASC, id ASC`
	if opt.Limit > 0 {
		query += " LIMIT " + b.arg(opt.Limit)
	}
	return r.queryReminders(ctx, "ListDueReminders", query, b.args...)
}

func (r *implRepository) queryReminders(ctx context.Context, method, query string, args ...any) ([]model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn(method), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		rm, err := scanReminder(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn(method), err)
			return nil, repo.ErrFailedToList
		}
		reminders = append(reminders, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.ErrFailedToList
	}
	return reminders, nil
}

func (r *implRepository) MarkReminderSent(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE reminders SET is_sent = TRUE WHERE id = $1 AND NOT is_sent`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("MarkReminderSent"), err)
		return false, repo.ErrFailedToUpdate
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *implRepository) AdvanceReminder(ctx context.Context, id string, prev, next time.Time) (bool, error) {
	const query = `UPDATE reminders SET remind_at = $1 WHERE id = $2 AND remind_at = $3 AND NOT is_sent`

	res, err := r.db.ExecContext(ctx, query, next, id, prev)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("AdvanceReminder"), err)
		return false, repo.ErrFailedToUpdate
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

package postgre

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"personal-assistant/internal/model"
	repo "personal-assistant/internal/repository"
)

const eventColumns = `id, user_id, title, description, location, start_at, end_at, external_id, reminder_minutes, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Location, &e.StartAt, &e.EndAt,
		&e.ExternalID, &e.ReminderMinutes, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *implRepository) CreateEvent(ctx context.Context, opt repo.CreateEventOptions) (model.Event, error) {
	query := `
		INSERT INTO events (id, user_id, title, description, location, start_at, end_at, reminder_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	e, err := scanEvent(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), opt.UserID, opt.Title, opt.Description, opt.Location,
		opt.StartAt, opt.EndAt, opt.ReminderMinutes))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateEvent"), err)
		return model.Event{}, repo.ErrFailedToInsert
	}
	return e, nil
}

// ListEvents returns events overlapping [From, To) in start order.
func (r *implRepository) ListEvents(ctx context.Context, opt repo.ListEventsOptions) ([]model.Event, error) {
	var b whereBuilder
	b.add("user_id = ?", opt.UserID)
	if !opt.To.IsZero() {
		b.add("start_at < ?", opt.To)
	}
	if !opt.From.IsZero() {
		b.add("end_at > ?", opt.From)
	}
	if opt.Query != "" {
		b.add(`(title ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`,
			containsPattern(opt.Query), containsPattern(opt.Query))
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + b.clause() + ` ORDER BY start_at ASC`
	if opt.Limit > 0 {
		query += " LIMIT " + b.arg(opt.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListEvents"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListEvents"), err)
			return nil, repo.ErrFailedToList
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.ErrFailedToList
	}
	return events, nil
}

func (r *implRepository) FindEvent(ctx context.Context, opt repo.FindOptions) (model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE user_id = $1 AND title ILIKE $2 ESCAPE '\'
		ORDER BY created_at DESC
		LIMIT 1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, opt.UserID, containsPattern(opt.Query)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("FindEvent"), err)
		return model.Event{}, repo.ErrFailedToGet
	}
	return e, nil
}

// UpdateEvent patches the non-nil fields. Returns zero-value Event when the
// row does not exist for that user.
func (r *implRepository) UpdateEvent(ctx context.Context, opt repo.UpdateEventOptions) (model.Event, error) {
	var b whereBuilder
	sets := []string{"updated_at = NOW()"}
	if opt.Title != nil {
		sets = append(sets, "title = "+b.arg(*opt.Title))
	}
	if opt.Description != nil {
		sets = append(sets, "description = "+b.arg(*opt.Description))
	}
	if opt.Location != nil {
		sets = append(sets, "location = "+b.arg(*opt.Location))
	}
	if opt.StartAt != nil {
		sets = append(sets, "start_at = "+b.arg(*opt.StartAt))
	}
	if opt.EndAt != nil {
		sets = append(sets, "end_at = "+b.arg(*opt.EndAt))
	}
	b.add("id = ?", opt.ID)
	b.add("user_id = ?", opt.UserID)

	query := `UPDATE events SET ` + strings.Join(sets, ", ") + ` WHERE ` + b.clause() + ` RETURNING ` + eventColumns

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, b.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateEvent"), err)
		return model.Event{}, repo.ErrFailedToUpdate
	}
	return e, nil
}

func (r *implRepository) SetEventExternalID(ctx context.Context, id, externalID string) error {
	const query = `UPDATE events SET external_id = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, externalID, id); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("SetEventExternalID"), err)
		return repo.ErrFailedToUpdate
	}
	return nil
}

func (r *implRepository) DeleteEvent(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM events WHERE id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteEvent"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}

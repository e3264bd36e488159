package postgre

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"personal-assistant/internal/model"
	repo "personal-assistant/internal/repository"
)

const noteColumns = `id, user_id, content, category, completed, created_at, updated_at`

func scanNote(row interface{ Scan(...any) error }) (model.Note, error) {
	var n model.Note
	err := row.Scan(&n.ID, &n.UserID, &n.Content, &n.Category, &n.Completed, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (r *implRepository) CreateNote(ctx context.Context, opt repo.CreateNoteOptions) (model.Note, error) {
	query := `
		INSERT INTO notes (id, user_id, content, category)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + noteColumns

	category := opt.Category
	if category == "" {
		category = model.DefaultNoteCategory
	}

	n, err := scanNote(r.db.QueryRowContext(ctx, query, uuid.NewString(), opt.UserID, opt.Content, category))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateNote"), err)
		return model.Note{}, repo.ErrFailedToInsert
	}
	return n, nil
}

// ListNotes returns the user's notes, newest first, optionally filtered by substring.
func (r *implRepository) ListNotes(ctx context.Context, opt repo.ListNotesOptions) ([]model.Note, error) {
	var b whereBuilder
	b.add("user_id = ?", opt.UserID)
	if opt.Query != "" {
		b.add(`content ILIKE ? ESCAPE '\'`, containsPattern(opt.Query))
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE ` + b.clause() + ` ORDER BY created_at DESC`
	if opt.Limit > 0 {
		query += " LIMIT " + b.arg(opt.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListNotes"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListNotes"), err)
			return nil, repo.ErrFailedToList
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.ErrFailedToList
	}
	return notes, nil
}

func (r *implRepository) FindNote(ctx context.Context, opt repo.FindOptions) (model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
		WHERE user_id = $1 AND content ILIKE $2 ESCAPE '\'
		ORDER BY created_at DESC
		LIMIT 1`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, opt.UserID, containsPattern(opt.Query)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("FindNote"), err)
		return model.Note{}, repo.ErrFailedToGet
	}
	return n, nil
}

func (r *implRepository) DeleteNote(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteNote"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}

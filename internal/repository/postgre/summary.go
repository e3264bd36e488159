package postgre

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"personal-assistant/internal/model"
	repo "personal-assistant/internal/repository"
)

// CreateSummary runs in one transaction: demote the previous current
// summary, insert the new one, mirror it onto the session.
func (r *implRepository) CreateSummary(ctx context.Context, opt repo.CreateSummaryOptions) (model.Summary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("CreateSummary"), err)
		return model.Summary{}, repo.ErrFailedToInsert
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE summaries SET is_current = FALSE WHERE session_id = $1 AND is_current`, opt.SessionID); err != nil {
		r.l.Errorf(ctx, "%s demote: %v", r.dsn("CreateSummary"), err)
		return model.Summary{}, repo.ErrFailedToInsert
	}

	var s model.Summary
	err = tx.QueryRowContext(ctx, `
		INSERT INTO summaries (id, session_id, content, is_current)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, session_id, content, is_current, created_at`,
		uuid.NewString(), opt.SessionID, opt.Content,
	).Scan(&s.ID, &s.SessionID, &s.Content, &s.IsCurrent, &s.CreatedAt)
	if err != nil {
		r.l.Errorf(ctx, "%s insert: %v", r.dsn("CreateSummary"), err)
		return model.Summary{}, repo.ErrFailedToInsert
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET current_summary = $1 WHERE id = $2`, opt.Content, opt.SessionID); err != nil {
		r.l.Errorf(ctx, "%s mirror: %v", r.dsn("CreateSummary"), err)
		return model.Summary{}, repo.ErrFailedToInsert
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("CreateSummary"), err)
		return model.Summary{}, repo.ErrFailedToInsert
	}
	return s, nil
}

// GetCurrentSummary returns zero-value Summary when the session has none.
func (r *implRepository) GetCurrentSummary(ctx context.Context, sessionID string) (model.Summary, error) {
	const query = `
		SELECT id, session_id, content, is_current, created_at
		FROM summaries
		WHERE session_id = $1 AND is_current
		ORDER BY created_at DESC
		LIMIT 1`

	var s model.Summary
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&s.ID, &s.SessionID, &s.Content, &s.IsCurrent, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Summary{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetCurrentSummary"), err)
		return model.Summary{}, repo.ErrFailedToGet
	}
	return s, nil
}

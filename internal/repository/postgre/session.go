package postgre

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"personal-assistant/internal/model"
	repo "personal-assistant/internal/repository"
)

const sessionColumns = `id, user_id, platform, started_at, ended_at, current_summary, metadata`

func scanSession(row interface{ Scan(...any) error }) (model.Session, error) {
	var (
		s        model.Session
		platform string
		endedAt  sql.NullTime
		metadata []byte
	)
	if err := row.Scan(&s.ID, &s.UserID, &platform, &s.StartedAt, &endedAt, &s.CurrentSummary, &metadata); err != nil {
		return model.Session{}, err
	}
	s.Platform = model.Platform(platform)
	s.EndedAt = timePtr(endedAt)
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &s.Metadata)
	}
	return s, nil
}

// CreateSession opens a new active session. A concurrent insert for the same
// (user, platform) loses on sessions_active_uniq and gets ErrAlreadyExists.
func (r *implRepository) CreateSession(ctx context.Context, opt repo.CreateSessionOptions) (model.Session, error) {
	query := `
		INSERT INTO sessions (id, user_id, platform, metadata)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, platform) WHERE ended_at IS NULL DO NOTHING
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), opt.UserID, string(opt.Platform), jsonText(opt.Metadata, "{}")))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, repo.ErrAlreadyExists
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateSession"), err)
		return model.Session{}, repo.ErrFailedToInsert
	}
	return s, nil
}

// GetOneSession returns zero-value Session when not found.
func (r *implRepository) GetOneSession(ctx context.Context, id string) (model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneSession"), err)
		return model.Session{}, repo.ErrFailedToGet
	}
	return s, nil
}

func (r *implRepository) GetActiveSession(ctx context.Context, userID string, platform model.Platform) (model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE user_id = $1 AND platform = $2 AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, userID, string(platform)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetActiveSession"), err)
		return model.Session{}, repo.ErrFailedToGet
	}
	return s, nil
}

// EndSession stamps ended_at and, when given, stores a closing summary.
// Returns zero-value Session when the id does not exist.
func (r *implRepository) EndSession(ctx context.Context, opt repo.EndSessionOptions) (model.Session, error) {
	query := `
		UPDATE sessions
		SET ended_at = $1,
		    current_summary = CASE WHEN $2 = '' THEN current_summary ELSE $2 END
		WHERE id = $3
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.QueryRowContext(ctx, query, opt.EndedAt, opt.Summary, opt.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("EndSession"), err)
		return model.Session{}, repo.ErrFailedToUpdate
	}
	return s, nil
}

// DeleteEndedSessions removes sessions ended before the cutoff together with
// their messages and summaries.
func (r *implRepository) DeleteEndedSessions(ctx context.Context, endedBefore time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE ended_at IS NOT NULL AND ended_at < $1`

	res, err := r.db.ExecContext(ctx, query, endedBefore)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteEndedSessions"), err)
		return 0, repo.ErrFailedToDelete
	}
	n, _ := res.RowsAffected()
	return n, nil
}

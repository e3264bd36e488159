package postgre

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"personal-assistant/internal/model"
	repo "personal-assistant/internal/repository"
)

const userColumns = `id, username, telegram_chat_id, timezone, digest_enabled, digest_hour, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.TelegramChatID, &u.Timezone, &u.DigestEnabled,
		&u.DigestHour, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser inserts a new User row and returns the created entity.
// Returns ErrAlreadyExists when the chat id is already bound.
func (r *implRepository) CreateUser(ctx context.Context, opt repo.CreateUserOptions) (model.User, error) {
	query := `
		INSERT INTO users (id, username, telegram_chat_id, timezone, digest_enabled, digest_hour)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (telegram_chat_id) WHERE telegram_chat_id <> 0 DO NOTHING
		RETURNING ` + userColumns

	tz := opt.Timezone
	if tz == "" {
		tz = model.DefaultTimezone
	}

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), opt.Username, opt.TelegramChatID, tz, opt.DigestEnabled, opt.DigestHour))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, repo.ErrAlreadyExists
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateUser"), err)
		return model.User{}, repo.ErrFailedToInsert
	}
	return u, nil
}

// GetOneUser fetches a user by id or Telegram chat id.
// Returns zero-value User (ID == "") when not found.
func (r *implRepository) GetOneUser(ctx context.Context, opt repo.GetOneUserOptions) (model.User, error) {
	var b whereBuilder
	switch {
	case opt.ID != "":
		b.add("id = ?", opt.ID)
	case opt.TelegramChatID != 0:
		b.add("telegram_chat_id = ?", opt.TelegramChatID)
	default:
		return model.User{}, repo.ErrInvalidOptions
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + b.clause() + ` LIMIT 1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, b.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneUser"), err)
		return model.User{}, repo.ErrFailedToGet
	}
	return u, nil
}

// ListDigestUsers returns active, reachable users who opted into the daily digest.
func (r *implRepository) ListDigestUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE digest_enabled AND is_active AND telegram_chat_id <> 0
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListDigestUsers"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListDigestUsers"), err)
			return nil, repo.ErrFailedToList
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ListDigestUsers"), err)
		return nil, repo.ErrFailedToList
	}
	return users, nil
}

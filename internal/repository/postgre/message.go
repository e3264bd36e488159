package postgre

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"personal-assistant/internal/model"
	repo "personal-assistant/internal/repository"
)

const messageColumns = `id, session_id, sender, content, type, tool_calls, model, created_at`

func scanMessage(row interface{ Scan(...any) error }) (model.Message, error) {
	var (
		m         model.Message
		sender    string
		msgType   string
		toolCalls []byte
	)
	if err := row.Scan(&m.ID, &m.SessionID, &sender, &m.Content, &msgType, &toolCalls, &m.Model, &m.CreatedAt); err != nil {
		return model.Message{}, err
	}
	m.Sender = model.Sender(sender)
	m.Type = model.MessageType(msgType)
	if len(toolCalls) > 0 {
		m.ToolCalls = toolCalls
	}
	return m, nil
}

// CreateMessage appends a turn to a session.
func (r *implRepository) CreateMessage(ctx context.Context, opt repo.CreateMessageOptions) (model.Message, error) {
	query := `
		INSERT INTO messages (id, session_id, sender, content, type, tool_calls, model)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + messageColumns

	msgType := opt.Type
	if msgType == "" {
		msgType = model.MessageTypeText
	}

	var toolCalls sql.NullString
	if len(opt.ToolCalls) > 0 {
		toolCalls = sql.NullString{String: string(opt.ToolCalls), Valid: true}
	}

	m, err := scanMessage(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), opt.SessionID, string(opt.Sender), opt.Content, string(msgType), toolCalls, opt.Model))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateMessage"), err)
		return model.Message{}, repo.ErrFailedToInsert
	}
	return m, nil
}

func (r *implRepository) CountMessages(ctx context.Context, sessionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM messages WHERE session_id = $1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&n); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CountMessages"), err)
		return 0, repo.ErrFailedToCount
	}
	return n, nil
}

// ListMessages returns a chronological slice. With FromEnd the newest Limit
// messages are selected and then re-sorted oldest first.
func (r *implRepository) ListMessages(ctx context.Context, opt repo.ListMessagesOptions) ([]model.Message, error) {
	var b whereBuilder
	b.add("session_id = ?", opt.SessionID)

	order := "created_at ASC, id ASC"
	if opt.FromEnd {
		order = "created_at DESC, id DESC"
	}

	inner := fmt.Sprintf(`SELECT %s FROM messages WHERE %s ORDER BY %s`, messageColumns, b.clause(), order)
	if opt.Limit > 0 {
		inner += " LIMIT " + b.arg(opt.Limit)
	}
	if opt.Offset > 0 {
		inner += " OFFSET " + b.arg(opt.Offset)
	}

	query := inner
	if opt.FromEnd {
		query = fmt.Sprintf(`SELECT %s FROM (%s) AS recent ORDER BY created_at ASC, id ASC`, messageColumns, inner)
	}

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListMessages"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListMessages"), err)
			return nil, repo.ErrFailedToList
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("ListMessages"), err)
		return nil, repo.ErrFailedToList
	}
	return msgs, nil
}

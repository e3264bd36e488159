package postgre

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"personal-assistant/internal/model"
	repo "personal-assistant/internal/repository"
)

const taskColumns = `id, user_id, title, description, status, priority, due_at, tags, created_at, updated_at`

// priorityOrder sorts urgent first.
const priorityOrder = `CASE priority
	WHEN 'urgent' THEN 0
	WHEN 'high' THEN 1
	WHEN 'medium' THEN 2
	ELSE 3 END`

func scanTask(row interface{ Scan(...any) error }) (model.Task, error) {
	var (
		t        model.Task
		status   string
		priority string
		dueAt    sql.NullTime
		tags     []byte
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &status, &priority, &dueAt, &tags, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return model.Task{}, err
	}
	t.Status = model.TaskStatus(status)
	t.Priority = model.TaskPriority(priority)
	t.DueAt = timePtr(dueAt)
	if len(tags) > 0 {
		_ = json.Unmarshal(tags, &t.Tags)
	}
	return t, nil
}

func (r *implRepository) CreateTask(ctx context.Context, opt repo.CreateTaskOptions) (model.Task, error) {
	query := `
		INSERT INTO tasks (id, user_id, title, description, status, priority, due_at, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns

	status := opt.Status
	if status == "" {
		status = model.TaskStatusPending
	}
	priority := opt.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}

	t, err := scanTask(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), opt.UserID, opt.Title, opt.Description, string(status), string(priority),
		nullTime(opt.DueAt), jsonText(opt.Tags, "[]")))
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateTask"), err)
		return model.Task{}, repo.ErrFailedToInsert
	}
	return t, nil
}

func (r *implRepository) ListTasks(ctx context.Context, opt repo.ListTasksOptions) ([]model.Task, error) {
	var b whereBuilder
	b.add("user_id = ?", opt.UserID)
	if len(opt.Statuses) > 0 {
		placeholders := make([]string, len(opt.Statuses))
		for i, s := range opt.Statuses {
			placeholders[i] = b.arg(string(s))
		}
		b.conditions = append(b.conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if opt.Query != "" {
		b.add(`(title ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`,
			containsPattern(opt.Query), containsPattern(opt.Query))
	}

	order := "created_at DESC"
	if opt.ByPriority {
		order = priorityOrder + ", due_at ASC NULLS LAST, created_at DESC"
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + b.clause() + ` ORDER BY ` + order
	if opt.Limit > 0 {
		query += " LIMIT " + b.arg(opt.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListTasks"), err)
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListTasks"), err)
			return nil, repo.ErrFailedToList
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, repo.ErrFailedToList
	}
	return tasks, nil
}

func (r *implRepository) FindTask(ctx context.Context, opt repo.FindOptions) (model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND title ILIKE $2 ESCAPE '\'
		ORDER BY created_at DESC
		LIMIT 1`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, opt.UserID, containsPattern(opt.Query)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("FindTask"), err)
		return model.Task{}, repo.ErrFailedToGet
	}
	return t, nil
}

// UpdateTask patches the non-nil fields. Returns zero-value Task when the
// row does not exist for that user.
func (r *implRepository) UpdateTask(ctx context.Context, opt repo.UpdateTaskOptions) (model.Task, error) {
	var b whereBuilder
	sets := []string{"updated_at = NOW()"}
	if opt.Title != nil {
		sets = append(sets, "title = "+b.arg(*opt.Title))
	}
	if opt.Status != nil {
		sets = append(sets, "status = "+b.arg(string(*opt.Status)))
	}
	if opt.Priority != nil {
		sets = append(sets, "priority = "+b.arg(string(*opt.Priority)))
	}
	if opt.DueAt != nil {
		sets = append(sets, "due_at = "+b.arg(*opt.DueAt))
	}
	b.add("id = ?", opt.ID)
	b.add("user_id = ?", opt.UserID)

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE ` + b.clause() + ` RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRowContext(ctx, query, b.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateTask"), err)
		return model.Task{}, repo.ErrFailedToUpdate
	}
	return t, nil
}

func (r *implRepository) DeleteTask(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteTask"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}

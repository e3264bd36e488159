package usecase

import (
	"context"
	"strings"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
)

func (uc *implUseCase) createTask(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	title := str(data, "title")
	if title == "" {
		return skipped("task title is required")
	}

	priority := model.TaskPriority(strings.ToLower(str(data, "priority")))
	if !priority.Valid() {
		priority = model.TaskPriorityMedium
	}

	opt := repository.CreateTaskOptions{
		UserID:      ac.user.ID,
		Title:       title,
		Description: str(data, "description"),
		Status:      model.TaskStatusPending,
		Priority:    priority,
		Tags:        strList(data, "tags"),
	}
	if raw := str(data, "due_date", "due", "deadline"); raw != "" {
		due, err := parseDueDate(ac, raw)
		if err != nil {
			uc.l.Warnf(ctx, "assistant.createTask: ignoring due date %q: %v", raw, err)
		} else {
			opt.DueAt = &due
		}
	}

	t, err := uc.repo.CreateTask(ctx, opt)
	if err != nil {
		return failed(err)
	}

	out := map[string]any{"id": t.ID, "title": t.Title, "priority": string(t.Priority)}
	if t.DueAt != nil {
		out["due_at"] = t.DueAt.Format(time.RFC3339)
	}
	return done(out)
}

func (uc *implUseCase) updateTask(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	title := str(data, "title")
	if title == "" {
		return skipped("task title is required")
	}

	t, err := uc.repo.FindTask(ctx, repository.FindOptions{UserID: ac.user.ID, Query: title})
	if err != nil {
		return failed(err)
	}
	if t.ID == "" {
		return skipped("no task matches %q", title)
	}

	opt := repository.UpdateTaskOptions{ID: t.ID, UserID: ac.user.ID}
	changed := false
	if v := str(data, "new_title"); v != "" {
		opt.Title = &v
		changed = true
	}
	if s := model.TaskStatus(strings.ToLower(str(data, "status"))); s.Valid() {
		opt.Status = &s
		changed = true
	}
	if p := model.TaskPriority(strings.ToLower(str(data, "priority"))); p.Valid() {
		opt.Priority = &p
		changed = true
	}
	if raw := str(data, "due_date", "due", "deadline"); raw != "" {
		if due, err := parseDueDate(ac, raw); err == nil {
			opt.DueAt = &due
			changed = true
		}
	}
	if !changed {
		return skipped("nothing to update on task %q", t.Title)
	}

	updated, err := uc.repo.UpdateTask(ctx, opt)
	if err != nil {
		return failed(err)
	}
	return done(map[string]any{"id": updated.ID, "title": updated.Title, "status": string(updated.Status)})
}

func (uc *implUseCase) deleteTask(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	title := str(data, "title", "query")
	if title == "" {
		return skipped("task title is required")
	}

	t, err := uc.repo.FindTask(ctx, repository.FindOptions{UserID: ac.user.ID, Query: title})
	if err != nil {
		return failed(err)
	}
	if t.ID == "" {
		return skipped("no task matches %q", title)
	}

	if err := uc.repo.DeleteTask(ctx, ac.user.ID, t.ID); err != nil {
		return failed(err)
	}
	return done(map[string]any{"id": t.ID, "title": t.Title})
}

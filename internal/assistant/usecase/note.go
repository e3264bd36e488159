package usecase

import (
	"context"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
)

// noteContent prefers explicit content, then "title: description".
func noteContent(data map[string]any) string {
	if c := str(data, "content", "text"); c != "" {
		return c
	}
	title, desc := str(data, "title"), str(data, "description")
	if title != "" && desc != "" {
		return title + ": " + desc
	}
	if title != "" {
		return title
	}
	return desc
}

func (uc *implUseCase) createNote(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	content := noteContent(data)
	if content == "" {
		return skipped("note content is required")
	}

	category := str(data, "category")
	if category == "" {
		category = model.DefaultNoteCategory
	}

	n, err := uc.repo.CreateNote(ctx, repository.CreateNoteOptions{
		UserID:   ac.user.ID,
		Content:  content,
		Category: category,
	})
	if err != nil {
		return failed(err)
	}
	return done(map[string]any{"id": n.ID, "content": n.Content})
}

func (uc *implUseCase) deleteNote(ctx context.Context, ac actionCtx, data map[string]any) outcome {
	query := str(data, "query", "content", "title")
	if query == "" {
		return skipped("note query is required")
	}

	n, err := uc.repo.FindNote(ctx, repository.FindOptions{UserID: ac.user.ID, Query: query})
	if err != nil {
		return failed(err)
	}
	if n.ID == "" {
		return skipped("no note matches %q", query)
	}

	if err := uc.repo.DeleteNote(ctx, ac.user.ID, n.ID); err != nil {
		return failed(err)
	}
	return done(map[string]any{"id": n.ID, "content": n.Content})
}

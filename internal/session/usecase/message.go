package usecase

import (
	"context"
	"strings"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/internal/session"
)

func (uc *implUseCase) AddMessage(ctx context.Context, input session.AddMessageInput) (model.Message, error) {
	if strings.TrimSpace(input.Content) == "" {
		return model.Message{}, session.ErrEmptyContent
	}
	switch input.Sender {
	case model.SenderUser, model.SenderAssistant, model.SenderSystem:
	default:
		return model.Message{}, session.ErrInvalidSender
	}

	msg, err := uc.repo.CreateMessage(ctx, repository.CreateMessageOptions{
		SessionID: input.SessionID,
		Sender:    input.Sender,
		Content:   input.Content,
		Type:      input.Type,
		ToolCalls: input.ToolCalls,
		Model:     input.Model,
	})
	if err != nil {
		uc.l.Errorf(ctx, "AddMessage: session=%s sender=%s: %v", input.SessionID, input.Sender, err)
		return model.Message{}, err
	}
	return msg, nil
}

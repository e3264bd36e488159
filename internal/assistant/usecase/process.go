package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"personal-assistant/internal/assistant"
	"personal-assistant/internal/intent"
	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/internal/session"
	"personal-assistant/pkg/datemath"
)

// ProcessMessage runs one exchange: window, user turn, intent, actions,
// assistant turn. Unexpected failures after the session is known become the
// apology reply and are still written to history.
func (uc *implUseCase) ProcessMessage(ctx context.Context, input assistant.ProcessInput) (assistant.ProcessOutput, error) {
	text := strings.TrimSpace(input.Text)
	msgType := input.MessageType
	if msgType == "" {
		msgType = model.MessageTypeText
	}
	if text == "" && msgType == model.MessageTypePhoto {
		text = assistant.PhotoPlaceholder
	}
	if text == "" {
		return assistant.ProcessOutput{}, assistant.ErrEmptyText
	}

	user, err := uc.repo.GetOneUser(ctx, repository.GetOneUserOptions{ID: input.UserID})
	if err != nil {
		uc.l.Errorf(ctx, "assistant.ProcessMessage: load user=%s: %v", input.UserID, err)
		return assistant.ProcessOutput{}, err
	}
	if user.ID == "" {
		return assistant.ProcessOutput{}, assistant.ErrUserNotFound
	}

	sess, err := uc.sessions.GetOrCreateSession(ctx, user.ID, input.Platform, input.Metadata)
	if err != nil {
		uc.l.Errorf(ctx, "assistant.ProcessMessage: session for user=%s: %v", user.ID, err)
		return assistant.ProcessOutput{}, err
	}

	// The window is built before the new turn is stored so it holds only history.
	window, err := uc.sessions.BuildWindow(ctx, sess.ID, uc.recentSize)
	if err != nil {
		uc.l.Warnf(ctx, "assistant.ProcessMessage: build window for session=%s: %v", sess.ID, err)
		window = session.Window{}
	}

	if _, err := uc.sessions.AddMessage(ctx, session.AddMessageInput{
		SessionID: sess.ID,
		Sender:    model.SenderUser,
		Content:   text,
		Type:      msgType,
	}); err != nil {
		uc.l.Errorf(ctx, "assistant.ProcessMessage: store user turn: %v", err)
	}

	if window.ShouldCreateSummary {
		uc.sessions.TriggerSummary(sess.ID, uc.recentSize)
	}

	reply, results, modelName := uc.respond(ctx, user, text, window)

	toolCalls, err := json.Marshal(results)
	if err != nil {
		uc.l.Errorf(ctx, "assistant.ProcessMessage: encode tool calls: %v", err)
		toolCalls = nil
	}
	if _, err := uc.sessions.AddMessage(ctx, session.AddMessageInput{
		SessionID: sess.ID,
		Sender:    model.SenderAssistant,
		Content:   reply,
		Type:      model.MessageTypeText,
		ToolCalls: toolCalls,
		Model:     modelName,
	}); err != nil {
		uc.l.Errorf(ctx, "assistant.ProcessMessage: store assistant turn: %v", err)
	}

	return assistant.ProcessOutput{
		Reply:           reply,
		SessionID:       sess.ID,
		ExecutedActions: results,
	}, nil
}

// respond extracts the intent and executes it. It never panics.
func (uc *implUseCase) respond(ctx context.Context, user model.User, text string, window session.Window) (reply string, results []model.ActionResult, modelName string) {
	results = []model.ActionResult{}
	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "assistant.ProcessMessage: panic: %v", r)
			reply = assistant.ApologyReply
		}
	}()

	tz := user.Timezone
	if tz == "" {
		tz = uc.defaultTimezone
	}
	loc := datemath.LoadLocation(tz)
	now := uc.now()

	res, err := uc.intent.Extract(ctx, intent.Input{
		Text:     text,
		Window:   window,
		Timezone: tz,
		Now:      now,
	})
	if err != nil {
		uc.l.Errorf(ctx, "assistant.ProcessMessage: extract intent: %v", err)
		return assistant.ApologyReply, results, ""
	}

	ac := actionCtx{
		user:   user,
		loc:    loc,
		parser: datemath.NewParserIn(loc),
		now:    now,
	}
	reply, results = uc.dispatch(ctx, ac, res.Actions, res.Reply)
	if strings.TrimSpace(reply) == "" {
		reply = defaultReply(results)
	}
	return reply, results, res.Model
}

// defaultReply covers a model that executed actions but wrote no text.
func defaultReply(results []model.ActionResult) string {
	ok := 0
	for _, r := range results {
		if r.Status == model.ActionStatusOK {
			ok++
		}
	}
	if ok == 0 {
		return "I'm not sure what to do with that. Could you rephrase?"
	}
	return fmt.Sprintf("Done (%d).", ok)
}

func (uc *implUseCase) EnsureTelegramUser(ctx context.Context, chatID int64, username string) (model.User, bool, error) {
	if chatID == 0 {
		return model.User{}, false, assistant.ErrInvalidChat
	}

	u, err := uc.repo.GetOneUser(ctx, repository.GetOneUserOptions{TelegramChatID: chatID})
	if err != nil {
		uc.l.Errorf(ctx, "assistant.EnsureTelegramUser: chat=%d: %v", chatID, err)
		return model.User{}, false, err
	}
	if u.ID != "" {
		return u, false, nil
	}

	u, err = uc.repo.CreateUser(ctx, repository.CreateUserOptions{
		Username:       username,
		TelegramChatID: chatID,
		Timezone:       uc.defaultTimezone,
		DigestEnabled:  true,
		DigestHour:     model.DefaultDigestHour,
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		// A concurrent update from the same chat created it first.
		u, err = uc.repo.GetOneUser(ctx, repository.GetOneUserOptions{TelegramChatID: chatID})
		if err == nil && u.ID == "" {
			err = repository.ErrFailedToGet
		}
		if err != nil {
			uc.l.Errorf(ctx, "assistant.EnsureTelegramUser: reload chat=%d: %v", chatID, err)
			return model.User{}, false, err
		}
		return u, false, nil
	}
	if err != nil {
		uc.l.Errorf(ctx, "assistant.EnsureTelegramUser: create chat=%d: %v", chatID, err)
		return model.User{}, false, err
	}
	uc.l.Infof(ctx, "assistant.EnsureTelegramUser: new user=%s chat=%d", u.ID, chatID)
	return u, true, nil
}

package telegram

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"personal-assistant/internal/assistant"
	"personal-assistant/internal/model"
	pkgLog "personal-assistant/pkg/log"
	pkgResponse "personal-assistant/pkg/response"
	pkgTelegram "personal-assistant/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a
// background goroutine; the LLM round trip can exceed Telegram's webhook timeout.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if h.secret != "" && c.GetHeader(pkgTelegram.SecretTokenHeader) != h.secret {
		h.l.Warnf(ctx, "telegram handler: rejected update with bad secret token")
		pkgResponse.Unauthorized(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Ignore non-message updates (edits, channel posts, etc.)
	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	msg := update.Message
	traceID := pkgLog.TraceID(ctx)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		// Detach from the request context, which is cancelled after the response.
		bgCtx := pkgLog.WithTraceID(context.Background(), traceID)
		defer func() {
			if r := recover(); r != nil {
				h.l.Errorf(bgCtx, "telegram handler: panic: %v", r)
			}
		}()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
			_ = h.bot.SendMessage(bgCtx, msg.Chat.ID, assistant.ApologyReply)
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

func (h *handler) Wait() {
	h.wg.Wait()
}

// processMessage handles a single Telegram message.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	chatID := msg.Chat.ID

	text, msgType := strings.TrimSpace(msg.Text), model.MessageTypeText
	switch {
	case msg.Voice != nil:
		return h.bot.SendMessage(ctx, chatID, msgVoiceUnsupported)
	case len(msg.Photo) > 0:
		text, msgType = strings.TrimSpace(msg.Caption), model.MessageTypePhoto
	case text == "":
		return nil
	}

	username := ""
	if msg.From != nil {
		username = msg.From.Username
	}

	// ---- Built-in commands ----
	switch text {
	case commandStart:
		if _, _, err := h.uc.EnsureTelegramUser(ctx, chatID, username); err != nil {
			return err
		}
		return h.bot.SendMessageWithMode(ctx, chatID, msgWelcome, "Markdown")
	case commandHelp:
		return h.bot.SendMessageWithMode(ctx, chatID, msgHelp, "Markdown")
	}

	if !h.limiter.Allow(strconv.FormatInt(chatID, 10)) {
		return h.bot.SendMessage(ctx, chatID, msgRateLimited)
	}

	user, _, err := h.uc.EnsureTelegramUser(ctx, chatID, username)
	if err != nil {
		return err
	}

	out, err := h.uc.ProcessMessage(ctx, assistant.ProcessInput{
		UserID:      user.ID,
		Text:        text,
		Platform:    model.PlatformTelegram,
		MessageType: msgType,
		Metadata: map[string]any{
			"chat_id":    chatID,
			"message_id": msg.MessageID,
		},
	})
	if err != nil {
		return err
	}

	return h.bot.SendMessage(ctx, chatID, out.Reply)
}

package telegram

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"

	"personal-assistant/internal/assistant"
	"personal-assistant/internal/middleware"
	pkgLog "personal-assistant/pkg/log"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
	// Wait blocks until in-flight updates finish.
	Wait()
}

// Sender is the part of the Bot API client the handler needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithMode(ctx context.Context, chatID int64, text string, parseMode string) error
}

type handler struct {
	l       pkgLog.Logger
	uc      assistant.UseCase
	bot     Sender
	secret  string
	limiter *middleware.RateLimiter
	wg      sync.WaitGroup
}

// New creates a new Telegram delivery handler. An empty secret disables the
// webhook secret check; a nil limiter disables per-chat rate limiting.
func New(l pkgLog.Logger, uc assistant.UseCase, bot Sender, secret string, limiter *middleware.RateLimiter) Handler {
	return &handler{
		l:       l,
		uc:      uc,
		bot:     bot,
		secret:  secret,
		limiter: limiter,
	}
}

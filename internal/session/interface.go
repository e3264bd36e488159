package session

import (
	"context"
	"time"

	"personal-assistant/internal/model"
)

// UseCase manages conversation sessions and the bounded context window
// handed to the language model.
type UseCase interface {
	// GetOrCreateSession returns the user's active session on platform,
	// opening a new one when none exists.
	GetOrCreateSession(ctx context.Context, userID string, platform model.Platform, metadata map[string]any) (model.Session, error)
	AddMessage(ctx context.Context, input AddMessageInput) (model.Message, error)

	// BuildWindow returns the turns to send to the model. recentSize <= 0 means DefaultRecentSize.
	BuildWindow(ctx context.Context, sessionID string, recentSize int) (Window, error)

	GenerateSummary(ctx context.Context, sessionID string, recentSize int) error
	// TriggerSummary runs GenerateSummary in the background. At most one
	// summary per session is generated at a time.
	TriggerSummary(sessionID string, recentSize int)
	// Wait blocks until background summaries finish.
	Wait()

	EndSession(ctx context.Context, sessionID, summary string) (model.Session, error)
	CleanupEndedSessions(ctx context.Context, olderThan time.Duration) (int64, error)
}

package session

import (
	"encoding/json"

	"personal-assistant/internal/model"
)

const (
	DefaultRecentSize = 10

	// Sessions longer than CompressFactor*recentSize are compressed into a
	// context turn plus the recent tail.
	CompressFactor = 3

	// SummarySourceLimit caps how many of the oldest messages feed a summary.
	SummarySourceLimit = 30

	// FallbackContextLimit is how many of the oldest messages stand in for a
	// summary that has not been generated yet.
	FallbackContextLimit = 20
)

// Turn roles match llmprovider.RoleUser and llmprovider.RoleAssistant.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged entry of the context window.
// Synthetic turns are built by the manager and not stored as messages.
type Turn struct {
	Role      string
	Content   string
	Synthetic bool
}

// Window is the ordered context for one model call.
type Window struct {
	Turns []Turn
	// CacheBreakpoint is the number of leading turns that stay stable across
	// calls and may be marked cacheable. 0 means none.
	CacheBreakpoint     int
	ShouldCreateSummary bool
	TotalMessages       int
}

type AddMessageInput struct {
	SessionID string
	Sender    model.Sender
	Content   string
	Type      model.MessageType
	ToolCalls json.RawMessage
	Model     string
}

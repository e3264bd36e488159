package intent

import (
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/session"
)

// Input is everything the extractor sees for one exchange. Window holds the
// history before Text; Text itself is not part of it.
type Input struct {
	Text     string
	Window   session.Window
	Timezone string
	Now      time.Time
}

// Result is the interpretation of one user message.
// Fallback is set when no model could be reached and Reply is canned.
type Result struct {
	Reply    string
	Actions  []model.Action
	Model    string
	Fallback bool
}

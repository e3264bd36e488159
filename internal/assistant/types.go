package assistant

import "personal-assistant/internal/model"

const (
	// ApologyReply is sent when the exchange failed unexpectedly.
	ApologyReply = "Sorry, something went wrong while processing your message. Please try again."

	// PhotoPlaceholder stands in for the text of a photo without a caption.
	PhotoPlaceholder = "[photo]"
)

type ProcessInput struct {
	UserID      string
	Text        string
	Platform    model.Platform
	MessageType model.MessageType
	Metadata    map[string]any
}

type ProcessOutput struct {
	Reply           string
	SessionID       string
	ExecutedActions []model.ActionResult
}

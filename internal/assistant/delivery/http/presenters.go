package http

import (
	"personal-assistant/internal/assistant"
	"personal-assistant/internal/model"
)

// --- Request DTOs ---

type sendMessageReq struct {
	UserID      string         `json:"user_id"      binding:"required"`
	Text        string         `json:"text"`
	Platform    string         `json:"platform"     binding:"omitempty,oneof=telegram web mobile api"`
	MessageType string         `json:"message_type" binding:"omitempty,oneof=text voice photo"`
	Metadata    map[string]any `json:"metadata"`
}

func (r sendMessageReq) validate() error {
	if r.Text == "" && r.MessageType != string(model.MessageTypePhoto) {
		return errTextRequired
	}
	return nil
}

func (r sendMessageReq) toInput() assistant.ProcessInput {
	platform := model.Platform(r.Platform)
	if platform == "" {
		platform = model.PlatformAPI
	}
	return assistant.ProcessInput{
		UserID:      r.UserID,
		Text:        r.Text,
		Platform:    platform,
		MessageType: model.MessageType(r.MessageType),
		Metadata:    r.Metadata,
	}
}

// --- Response DTOs ---

type actionResp struct {
	Type   string         `json:"type"`
	Status string         `json:"status"`
	Data   map[string]any `json:"data,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type sendMessageResp struct {
	Reply     string       `json:"reply"`
	SessionID string       `json:"session_id"`
	Actions   []actionResp `json:"actions"`
}

func (h *handler) newSendMessageResp(out assistant.ProcessOutput) sendMessageResp {
	actions := make([]actionResp, len(out.ExecutedActions))
	for i, a := range out.ExecutedActions {
		actions[i] = actionResp{
			Type:   string(a.Type),
			Status: string(a.Status),
			Data:   a.Data,
			Error:  a.Error,
		}
	}
	return sendMessageResp{
		Reply:     out.Reply,
		SessionID: out.SessionID,
		Actions:   actions,
	}
}

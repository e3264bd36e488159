package usecase

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"personal-assistant/internal/intent"
	"personal-assistant/internal/model"
	"personal-assistant/internal/session"
	"personal-assistant/pkg/llmprovider"
)

// wireResponse is the JSON object the model is asked to produce. Intent,
// Response and Data accept the older single-action shape.
type wireResponse struct {
	Reply    string         `json:"reply"`
	Actions  []wireAction   `json:"actions"`
	Intent   string         `json:"intent"`
	Response string         `json:"response"`
	Data     map[string]any `json:"data"`
}

type wireAction struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Extract asks the model for a reply and the actions in input.Text. When
// every provider fails it returns a canned keyword-based reply with no
// actions and a nil error.
func (uc *implUseCase) Extract(ctx context.Context, input intent.Input) (intent.Result, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return intent.Result{}, intent.ErrEmptyText
	}

	now := input.Now
	if now.IsZero() {
		now = uc.now()
	}

	sys := llmprovider.TextMessage("system", systemPrompt)
	sys.Cache = true
	req := &llmprovider.Request{
		SystemInstruction: &sys,
		Messages:          buildMessages(input.Window, timeContext(now, input.Timezone)+"\n"+text),
		Temperature:       defaultTemperature,
		MaxTokens:         defaultMaxTokens,
		JSONOutput:        true,
	}

	resp, err := uc.llm.GenerateContent(ctx, req)
	if err != nil {
		uc.l.Warnf(ctx, "intent.Extract: LLM unavailable, using fallback: %v", err)
		return fallback(text), nil
	}

	result := parseResponse(resp.Text())
	result.Model = resp.ModelName
	uc.l.Debugf(ctx, "intent.Extract: model=%s actions=%d", result.Model, len(result.Actions))
	return result, nil
}

// buildMessages converts the window to provider messages, flags the stable
// prefix for caching and appends the current user message.
func buildMessages(w session.Window, current string) []llmprovider.Message {
	msgs := make([]llmprovider.Message, 0, len(w.Turns)+1)
	for i, t := range w.Turns {
		role := llmprovider.RoleUser
		if t.Role == session.RoleAssistant {
			role = llmprovider.RoleAssistant
		}
		m := llmprovider.TextMessage(role, t.Content)
		m.Cache = i < w.CacheBreakpoint
		msgs = append(msgs, m)
	}
	return append(msgs, llmprovider.TextMessage(llmprovider.RoleUser, current))
}

// parseResponse reads the model output. Non-JSON output is treated as a
// plain reply with no actions.
func parseResponse(raw string) intent.Result {
	raw = strings.TrimSpace(raw)

	var wire wireResponse
	if err := json.Unmarshal([]byte(sanitizeJSONResponse(raw)), &wire); err != nil {
		return intent.Result{Reply: raw}
	}

	result := intent.Result{Reply: strings.TrimSpace(wire.Reply)}
	if result.Reply == "" {
		result.Reply = strings.TrimSpace(wire.Response)
	}

	for _, a := range wire.Actions {
		if act, ok := toAction(a.Type, a.Data); ok {
			result.Actions = append(result.Actions, act)
		}
	}
	if len(wire.Actions) == 0 && wire.Intent != "" && wire.Intent != "chat" {
		if act, ok := toAction(wire.Intent, wire.Data); ok {
			result.Actions = append(result.Actions, act)
		}
	}
	return result
}

func toAction(typ string, data map[string]any) (model.Action, bool) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" {
		return model.Action{}, false
	}
	if data == nil {
		data = map[string]any{}
	}
	return model.Action{Type: model.ActionType(typ), Data: data}, true
}

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// sanitizeJSONResponse removes markdown code fences and leading/trailing prose
// that LLMs often add around JSON output.
func sanitizeJSONResponse(text string) string {
	if m := codeFence.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return text
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}

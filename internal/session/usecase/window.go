package usecase

import (
	"context"
	"strings"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/internal/session"
)

const contextTurnPrefix = "Context from earlier in this conversation:\n"

// BuildWindow selects the turns for the next model call.
//
//	T <= N:     every message, nothing cacheable
//	T <= 3N:    every message, the oldest T-N are cacheable
//	T >  3N:    one context turn (summary or oldest messages) + newest N
func (uc *implUseCase) BuildWindow(ctx context.Context, sessionID string, recentSize int) (session.Window, error) {
	n := recentOrDefault(recentSize)

	total, err := uc.repo.CountMessages(ctx, sessionID)
	if err != nil {
		uc.l.Errorf(ctx, "BuildWindow: count session=%s: %v", sessionID, err)
		return session.Window{}, err
	}

	if total <= session.CompressFactor*n {
		msgs, err := uc.repo.ListMessages(ctx, repository.ListMessagesOptions{SessionID: sessionID})
		if err != nil {
			uc.l.Errorf(ctx, "BuildWindow: list session=%s: %v", sessionID, err)
			return session.Window{}, err
		}
		w := session.Window{Turns: toTurns(msgs), TotalMessages: total}
		if len(msgs) > n {
			w.CacheBreakpoint = len(msgs) - n
		}
		return w, nil
	}

	w := session.Window{TotalMessages: total}

	summary, err := uc.repo.GetCurrentSummary(ctx, sessionID)
	if err != nil {
		uc.l.Errorf(ctx, "BuildWindow: summary session=%s: %v", sessionID, err)
		return session.Window{}, err
	}

	contextText := summary.Content
	if summary.ID == "" {
		w.ShouldCreateSummary = true
		oldest, err := uc.repo.ListMessages(ctx, repository.ListMessagesOptions{
			SessionID: sessionID,
			Limit:     session.FallbackContextLimit,
		})
		if err != nil {
			uc.l.Errorf(ctx, "BuildWindow: oldest session=%s: %v", sessionID, err)
			return session.Window{}, err
		}
		contextText = renderTranscript(oldest)
	}

	recent, err := uc.repo.ListMessages(ctx, repository.ListMessagesOptions{
		SessionID: sessionID,
		Limit:     n,
		FromEnd:   true,
	})
	if err != nil {
		uc.l.Errorf(ctx, "BuildWindow: recent session=%s: %v", sessionID, err)
		return session.Window{}, err
	}

	w.Turns = make([]session.Turn, 0, len(recent)+1)
	w.Turns = append(w.Turns, session.Turn{
		Role:      session.RoleUser,
		Content:   contextTurnPrefix + contextText,
		Synthetic: true,
	})
	w.Turns = append(w.Turns, toTurns(recent)...)
	w.CacheBreakpoint = 1
	return w, nil
}

func recentOrDefault(n int) int {
	if n <= 0 {
		return session.DefaultRecentSize
	}
	return n
}

func toTurns(msgs []model.Message) []session.Turn {
	turns := make([]session.Turn, 0, len(msgs))
	for _, m := range msgs {
		switch m.Sender {
		case model.SenderAssistant:
			turns = append(turns, session.Turn{Role: session.RoleAssistant, Content: m.Content})
		case model.SenderSystem:
			turns = append(turns, session.Turn{Role: session.RoleUser, Content: "[system] " + m.Content})
		default:
			turns = append(turns, session.Turn{Role: session.RoleUser, Content: m.Content})
		}
	}
	return turns
}

// renderTranscript writes one "speaker: text" line per message.
func renderTranscript(msgs []model.Message) string {
	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(speaker(m.Sender))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}
	return sb.String()
}

func speaker(s model.Sender) string {
	switch s {
	case model.SenderAssistant:
		return "Assistant"
	case model.SenderSystem:
		return "System"
	}
	return "User"
}

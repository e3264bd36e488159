package usecase

import (
	"context"
	"fmt"
	"strings"

	"personal-assistant/internal/repository"
	"personal-assistant/internal/session"
	"personal-assistant/pkg/llmprovider"
)

const summaryInstruction = `You condense the older part of a conversation between a user and their personal assistant.
Write 3 to 5 sentences in the language of the conversation.
Name every concrete thing that was created or changed (notes, tasks, events, reminders, expenses) with its title, date and time.
Keep facts the user shared about themselves and open questions. Do not add anything that is not in the transcript.
Reply with the summary text only.`

// GenerateSummary condenses the oldest min(30, T-N) messages and stores the
// result as the session's current summary. It reads a snapshot and may lose
// a race with concurrent appends.
func (uc *implUseCase) GenerateSummary(ctx context.Context, sessionID string, recentSize int) error {
	n := recentOrDefault(recentSize)

	total, err := uc.repo.CountMessages(ctx, sessionID)
	if err != nil {
		return err
	}
	older := total - n
	if older <= 0 {
		return session.ErrNothingToSummarize
	}

	msgs, err := uc.repo.ListMessages(ctx, repository.ListMessagesOptions{
		SessionID: sessionID,
		Limit:     min(session.SummarySourceLimit, older),
	})
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return session.ErrNothingToSummarize
	}

	sys := llmprovider.TextMessage("system", summaryInstruction)
	resp, err := uc.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: &sys,
		Messages: []llmprovider.Message{
			llmprovider.TextMessage(llmprovider.RoleUser, "Transcript:\n"+renderTranscript(msgs)),
		},
		Temperature: 0.3,
		MaxTokens:   512,
	})
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return session.ErrEmptySummary
	}

	if _, err := uc.repo.CreateSummary(ctx, repository.CreateSummaryOptions{
		SessionID: sessionID,
		Content:   text,
	}); err != nil {
		return err
	}

	uc.l.Infof(ctx, "GenerateSummary: session=%s summarized %d messages", sessionID, len(msgs))
	return nil
}

func (uc *implUseCase) TriggerSummary(sessionID string, recentSize int) {
	if _, busy := uc.inflight.LoadOrStore(sessionID, struct{}{}); busy {
		return
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		defer uc.inflight.Delete(sessionID)

		ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				uc.l.Errorf(ctx, "TriggerSummary: panic for session=%s: %v", sessionID, r)
			}
		}()

		if err := uc.GenerateSummary(ctx, sessionID, recentSize); err != nil {
			uc.l.Warnf(ctx, "TriggerSummary: session=%s: %v", sessionID, err)
		}
	}()
}

func (uc *implUseCase) Wait() {
	uc.wg.Wait()
}

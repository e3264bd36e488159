package usecase

import (
	"context"
	"errors"
	"time"

	"personal-assistant/internal/model"
	"personal-assistant/internal/repository"
	"personal-assistant/internal/session"
)

func (uc *implUseCase) GetOrCreateSession(ctx context.Context, userID string, platform model.Platform, metadata map[string]any) (model.Session, error) {
	if platform == "" {
		platform = model.PlatformTelegram
	}
	if !platform.Valid() {
		return model.Session{}, session.ErrInvalidPlatform
	}

	s, err := uc.repo.GetActiveSession(ctx, userID, platform)
	if err != nil {
		uc.l.Errorf(ctx, "GetOrCreateSession: failed to load active session user=%s: %v", userID, err)
		return model.Session{}, err
	}
	if s.ID != "" {
		return s, nil
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	s, err = uc.repo.CreateSession(ctx, repository.CreateSessionOptions{
		UserID:   userID,
		Platform: platform,
		Metadata: metadata,
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		// Another request opened it between our read and insert.
		s, err = uc.repo.GetActiveSession(ctx, userID, platform)
		if err == nil && s.ID == "" {
			err = session.ErrSessionNotFound
		}
		if err != nil {
			uc.l.Errorf(ctx, "GetOrCreateSession: failed to reload session user=%s: %v", userID, err)
			return model.Session{}, err
		}
		return s, nil
	}
	if err != nil {
		uc.l.Errorf(ctx, "GetOrCreateSession: failed to create session user=%s: %v", userID, err)
		return model.Session{}, err
	}

	uc.l.Infof(ctx, "GetOrCreateSession: opened session %s for user=%s platform=%s", s.ID, userID, platform)
	return s, nil
}

// EndSession closes an active session. Ending an already ended session
// returns it unchanged.
func (uc *implUseCase) EndSession(ctx context.Context, sessionID, summary string) (model.Session, error) {
	s, err := uc.repo.GetOneSession(ctx, sessionID)
	if err != nil {
		return model.Session{}, err
	}
	if s.ID == "" {
		uc.l.Warnf(ctx, "EndSession: session %s does not exist", sessionID)
		return model.Session{}, session.ErrSessionNotFound
	}
	if !s.Active() {
		return s, nil
	}

	s, err = uc.repo.EndSession(ctx, repository.EndSessionOptions{
		ID:      sessionID,
		EndedAt: uc.now(),
		Summary: summary,
	})
	if err != nil {
		uc.l.Errorf(ctx, "EndSession: failed to end session %s: %v", sessionID, err)
		return model.Session{}, err
	}
	if s.ID == "" {
		return model.Session{}, session.ErrSessionNotFound
	}

	uc.l.Infof(ctx, "EndSession: session %s ended", sessionID)
	return s, nil
}

// CleanupEndedSessions deletes sessions that ended more than olderThan ago.
// olderThan <= 0 means 30 days.
func (uc *implUseCase) CleanupEndedSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		olderThan = defaultRetention
	}
	cutoff := uc.now().Add(-olderThan)

	n, err := uc.repo.DeleteEndedSessions(ctx, cutoff)
	if err != nil {
		uc.l.Errorf(ctx, "CleanupEndedSessions: %v", err)
		return 0, err
	}

	uc.l.Infof(ctx, "CleanupEndedSessions: removed %d sessions ended before %s", n, cutoff.Format(time.RFC3339))
	return n, nil
}

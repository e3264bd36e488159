package scheduler

import (
	"context"
	"time"
)

// SessionCleaner deletes ended sessions older than a retention period.
type SessionCleaner interface {
	CleanupEndedSessions(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CleanupJob purges ended sessions past their retention.
type CleanupJob struct {
	sessions  SessionCleaner
	retention time.Duration
}

func NewCleanupJob(sessions SessionCleaner, retention time.Duration) *CleanupJob {
	return &CleanupJob{sessions: sessions, retention: retention}
}

func (j *CleanupJob) Name() string { return "session-cleanup" }

func (j *CleanupJob) Run(ctx context.Context) error {
	_, err := j.sessions.CleanupEndedSessions(ctx, j.retention)
	return err
}

package usecase

import (
	"sync"
	"time"

	"personal-assistant/internal/repository"
	"personal-assistant/pkg/llmprovider"
	pkgLog "personal-assistant/pkg/log"
)

const (
	defaultRetention = 30 * 24 * time.Hour
	summaryTimeout   = 2 * time.Minute
)

// Store is the slice of the entity store the session manager needs.
type Store interface {
	repository.SessionRepository
	repository.MessageRepository
	repository.SummaryRepository
}

type implUseCase struct {
	l    pkgLog.Logger
	repo Store
	llm  llmprovider.Generator
	now  func() time.Time

	// inflight holds session ids with a summary being generated.
	inflight sync.Map
	wg       sync.WaitGroup
}

// New creates a new session UseCase instance.
func New(l pkgLog.Logger, repo Store, llm llmprovider.Generator) *implUseCase {
	return &implUseCase{
		l:    l,
		repo: repo,
		llm:  llm,
		now:  time.Now,
	}
}

package usecase

import (
	"time"

	"personal-assistant/pkg/llmprovider"
	pkgLog "personal-assistant/pkg/log"
)

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 1024
)

type implUseCase struct {
	l   pkgLog.Logger
	llm llmprovider.Generator
	now func() time.Time
}

// New creates a new intent Extractor backed by the LLM manager.
func New(l pkgLog.Logger, llm llmprovider.Generator) *implUseCase {
	return &implUseCase{
		l:   l,
		llm: llm,
		now: time.Now,
	}
}

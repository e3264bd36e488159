package session

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidPlatform    = errors.New("invalid platform")
	ErrEmptyContent       = errors.New("message content is empty")
	ErrInvalidSender      = errors.New("invalid message sender")
	ErrNothingToSummarize = errors.New("session is too short to summarize")
	ErrEmptySummary       = errors.New("model returned an empty summary")
)

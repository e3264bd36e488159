package scheduler

import "errors"

var (
	ErrInvalidInterval = errors.New("scheduler: interval must be positive")
	ErrAlreadyStarted  = errors.New("scheduler: runner already started")
)

package assistant

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmptyText    = errors.New("message text is empty")
	ErrInvalidChat  = errors.New("invalid telegram chat id")
)

package intent

import "errors"

var (
	ErrEmptyText = errors.New("empty message text")
)

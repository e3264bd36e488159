package deepseek

import "errors"

// ErrRateLimited is returned when the API answers 429.
var ErrRateLimited = errors.New("deepseek: rate limited")

package intent

import "context"

// Extractor turns one user message plus its context window into a reply
// and an ordered list of actions.
type Extractor interface {
	Extract(ctx context.Context, input Input) (Result, error)
}

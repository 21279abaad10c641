package regulations

import "errors"

// Domain errors for regulation retrieval.
var (
	ErrEmptyQuery = errors.New("search query cannot be empty")
)

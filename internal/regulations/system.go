package regulations

import (
	"context"
)

// DefaultTopK is the number of passages retrieved for classification
// context when the caller does not specify one.
const DefaultTopK = 3

// System defines the public contract for regulation retrieval operations.
type System interface {
	Handler() *Handler

	// Retrieve returns the k most relevant passages for a query, ordered by
	// descending relevance. An empty result means no supporting context, not
	// an error.
	Retrieve(ctx context.Context, query string, k int) ([]Passage, error)

	// Search is the filtered variant backing the search endpoint: doc type
	// and minimum relevance constrain the results.
	Search(ctx context.Context, query string, k int, docType string, minRelevance float64) ([]Passage, error)
}

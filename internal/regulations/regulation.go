// Package regulations implements semantic retrieval over an embedded corpus
// of benefit-program regulation text, plus the citation type shared by every
// component that references regulation passages.
package regulations

import (
	"time"

	"github.com/google/uuid"
)

// Citation is a reference to specific regulation text supporting a decision.
// Citations are always attached to a verdict, never stored standalone.
type Citation struct {
	RegulationID   string  `json:"regulation_id"`
	Section        string  `json:"section"`
	Excerpt        string  `json:"excerpt"`
	RelevanceScore float64 `json:"relevance_score"`
	SourceURL      string  `json:"source_url"`
}

// Document is a stored regulation passage with its embedding metadata.
// The corpus is loaded out of band; this service only reads it.
type Document struct {
	ID           uuid.UUID `json:"id"`
	RegulationID string    `json:"regulation_id"`
	Section      string    `json:"section"`
	Content      string    `json:"content"`
	SourceURL    string    `json:"source_url"`
	DocType      string    `json:"doc_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// Passage is one retrieval hit: a regulation document with its relevance
// to the query, ordered most relevant first.
type Passage struct {
	Document  Document `json:"document"`
	Relevance float64  `json:"relevance"`
}

// Citation converts a retrieved passage into a citation.
func (p *Passage) Citation() Citation {
	return Citation{
		RegulationID:   p.Document.RegulationID,
		Section:        p.Document.Section,
		Excerpt:        p.Document.Content,
		RelevanceScore: p.Relevance,
		SourceURL:      p.Document.SourceURL,
	}
}

package classifications

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/asklokesh/ebt/pkg/query"
	"github.com/asklokesh/ebt/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "classifications", "c").
	Project("audit_id", "AuditID").
	Project("product_id", "ProductID").
	Project("product_name", "ProductName").
	Project("is_eligible", "IsEligible").
	Project("confidence", "Confidence").
	Project("category", "Category").
	Project("reasoning", "ReasoningChain").
	Project("citations", "Citations").
	Project("key_factors", "KeyFactors").
	Project("data_sources", "DataSources").
	Project("model_version", "ModelVersion").
	Project("processing_ms", "ProcessingMS").
	Project("request_hash", "RequestHash").
	Project("classified_at", "ClassifiedAt")

var defaultSort = query.SortField{
	Field:      "ClassifiedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for classification queries.
// Nil fields are ignored.
type Filters struct {
	ProductID     *string  `json:"product_id,omitempty"`
	IsEligible    *bool    `json:"is_ebt_eligible,omitempty"`
	Category      *string  `json:"classification_category,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ProductID", f.ProductID).
		WhereEquals("IsEligible", f.IsEligible).
		WhereEquals("Category", f.Category).
		WhereGte("Confidence", f.MinConfidence)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("product_id"); s != "" {
		f.ProductID = &s
	}

	if s := values.Get("is_ebt_eligible"); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			f.IsEligible = &v
		}
	}

	if s := values.Get("category"); s != "" {
		f.Category = &s
	}

	if s := values.Get("min_confidence"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.MinConfidence = &v
		}
	}

	return f
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	var reasoningRaw, citationsRaw, factorsRaw, sourcesRaw []byte

	err := s.Scan(
		&c.AuditID,
		&c.ProductID,
		&c.ProductName,
		&c.IsEligible,
		&c.Confidence,
		&c.Category,
		&reasoningRaw,
		&citationsRaw,
		&factorsRaw,
		&sourcesRaw,
		&c.ModelVersion,
		&c.ProcessingMS,
		&c.RequestHash,
		&c.ClassifiedAt,
	)

	if err != nil {
		return c, err
	}

	for _, col := range []struct {
		raw  []byte
		dest any
		name string
	}{
		{reasoningRaw, &c.ReasoningChain, "reasoning"},
		{citationsRaw, &c.Citations, "citations"},
		{factorsRaw, &c.KeyFactors, "key_factors"},
		{sourcesRaw, &c.DataSources, "data_sources"},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return c, fmt.Errorf("unmarshal %s: %w", col.name, err)
		}
	}

	return c, nil
}

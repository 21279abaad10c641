package audit

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/asklokesh/ebt/pkg/query"
	"github.com/asklokesh/ebt/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audit_trail", "a").
	Join("JOIN public.classifications c ON c.audit_id = a.audit_id").
	Project("audit_id", "AuditID").
	Project("created_at", "CreatedAt").
	Project("request_payload", "RequestPayload").
	Project("request_source", "RequestSource").
	Project("model_used", "ModelUsed").
	Project("tokens_consumed", "TokensConsumed").
	Project("documents_retrieved", "DocumentsRetrieved").
	ProjectJoined("c", "product_id", "ProductID").
	ProjectJoined("c", "product_name", "ProductName").
	ProjectJoined("c", "is_eligible", "IsEligible").
	ProjectJoined("c", "category", "Category").
	ProjectJoined("c", "confidence", "Confidence").
	Project("was_challenged", "WasChallenged").
	Project("challenge_reason", "ChallengeReason").
	Project("challenge_audit_id", "ChallengeAuditID").
	Project("challenged_at", "ChallengedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for audit trail queries.
// Nil fields are ignored. Date bounds are inclusive.
type Filters struct {
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	IsEligible    *bool      `json:"is_ebt_eligible,omitempty"`
	Category      *string    `json:"classification_category,omitempty"`
	WasChallenged *bool      `json:"was_challenged,omitempty"`
	ProductID     *string    `json:"product_id,omitempty"`
	Source        *string    `json:"request_source,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereGte("CreatedAt", f.StartDate).
		WhereLte("CreatedAt", f.EndDate).
		WhereEquals("IsEligible", f.IsEligible).
		WhereEquals("Category", f.Category).
		WhereEquals("WasChallenged", f.WasChallenged).
		WhereEquals("ProductID", f.ProductID).
		WhereEquals("RequestSource", f.Source)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Dates use RFC 3339.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("start_date"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.StartDate = &t
		}
	}

	if s := values.Get("end_date"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.EndDate = &t
		}
	}

	if s := values.Get("is_ebt_eligible"); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			f.IsEligible = &v
		}
	}

	if s := values.Get("category"); s != "" {
		f.Category = &s
	}

	if s := values.Get("was_challenged"); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			f.WasChallenged = &v
		}
	}

	if s := values.Get("product_id"); s != "" {
		f.ProductID = &s
	}

	if s := values.Get("request_source"); s != "" {
		f.Source = &s
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	var docsRaw []byte

	err := s.Scan(
		&r.AuditID,
		&r.CreatedAt,
		&r.RequestPayload,
		&r.RequestSource,
		&r.ModelUsed,
		&r.TokensConsumed,
		&docsRaw,
		&r.ProductID,
		&r.ProductName,
		&r.IsEligible,
		&r.Category,
		&r.Confidence,
		&r.WasChallenged,
		&r.ChallengeReason,
		&r.ChallengeAuditID,
		&r.ChallengedAt,
	)

	if err != nil {
		return r, err
	}

	if len(docsRaw) > 0 {
		if err := json.Unmarshal(docsRaw, &r.DocumentsRetrieved); err != nil {
			return r, fmt.Errorf("unmarshal documents_retrieved: %w", err)
		}
	}

	if r.DocumentsRetrieved == nil {
		r.DocumentsRetrieved = []string{}
	}

	return r, nil
}

package query_test

import (
	"strings"
	"testing"
	"time"

	"github.com/asklokesh/ebt/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func testProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "classifications", "c").
		Project("audit_id", "AuditID").
		Project("product_id", "ProductID").
		Project("confidence", "Confidence").
		Project("classified_at", "ClassifiedAt")
}

func TestBuildWithRangeConditions(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	sql, args := query.NewBuilder(testProjection()).
		WhereGte("ClassifiedAt", &start).
		WhereLte("ClassifiedAt", &end).
		WhereGte("Confidence", ptr(0.8)).
		Build()

	if !strings.Contains(sql, "c.classified_at >= $1") {
		t.Errorf("missing gte clause: %s", sql)
	}
	if !strings.Contains(sql, "c.classified_at <= $2") {
		t.Errorf("missing lte clause: %s", sql)
	}
	if !strings.Contains(sql, "c.confidence >= $3") {
		t.Errorf("missing confidence clause: %s", sql)
	}
	if len(args) != 3 {
		t.Errorf("args = %d, want 3", len(args))
	}
}

func TestRangeConditionsSkipNil(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereGte("Confidence", (*float64)(nil)).
		WhereLte("Confidence", (*float64)(nil)).
		Build()

	if strings.Contains(sql, "WHERE") {
		t.Errorf("nil range values should be no-ops: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestJoinedProjection(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "audit_trail", "a").
		Join("JOIN public.classifications c ON c.audit_id = a.audit_id").
		Project("audit_id", "AuditID").
		ProjectJoined("c", "category", "Category")

	sql, args := query.NewBuilder(projection).
		WhereEquals("Category", ptr("INELIGIBLE_ALCOHOL")).
		Build()

	if !strings.Contains(sql, "FROM public.audit_trail a JOIN public.classifications c ON c.audit_id = a.audit_id") {
		t.Errorf("join missing from FROM clause: %s", sql)
	}
	if !strings.Contains(sql, "c.category = $1") {
		t.Errorf("joined column not qualified: %s", sql)
	}
	if len(args) != 1 {
		t.Errorf("args = %v", args)
	}
}

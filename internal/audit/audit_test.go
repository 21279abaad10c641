package audit_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/asklokesh/ebt/internal/audit"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", audit.ErrNotFound, http.StatusNotFound},
		{"duplicate", audit.ErrDuplicate, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find: %w", audit.ErrNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := audit.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{
		"start_date":      {"2025-01-01T00:00:00Z"},
		"end_date":        {"2025-12-31T23:59:59Z"},
		"is_ebt_eligible": {"false"},
		"category":        {"INELIGIBLE_ALCOHOL"},
		"was_challenged":  {"true"},
		"product_id":      {"beer-1"},
		"request_source":  {"API"},
	}

	f := audit.FiltersFromQuery(values)

	if f.StartDate == nil || !f.StartDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartDate = %v", f.StartDate)
	}
	if f.EndDate == nil {
		t.Error("EndDate is nil")
	}
	if f.IsEligible == nil || *f.IsEligible {
		t.Errorf("IsEligible = %v", f.IsEligible)
	}
	if f.Category == nil || *f.Category != "INELIGIBLE_ALCOHOL" {
		t.Errorf("Category = %v", f.Category)
	}
	if f.WasChallenged == nil || !*f.WasChallenged {
		t.Errorf("WasChallenged = %v", f.WasChallenged)
	}
	if f.ProductID == nil || *f.ProductID != "beer-1" {
		t.Errorf("ProductID = %v", f.ProductID)
	}
	if f.Source == nil || *f.Source != "API" {
		t.Errorf("Source = %v", f.Source)
	}
}

func TestFiltersFromQueryMalformedDates(t *testing.T) {
	values := url.Values{
		"start_date": {"yesterday"},
		"end_date":   {"01/01/2025"},
	}

	f := audit.FiltersFromQuery(values)

	if f.StartDate != nil || f.EndDate != nil {
		t.Errorf("malformed dates should be ignored, got %+v", f)
	}
}

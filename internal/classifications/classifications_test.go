package classifications_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/asklokesh/ebt/internal/classifications"
	"github.com/asklokesh/ebt/internal/metrics"
	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/pkg/pagination"
)

func testSystem() classifications.System {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return classifications.New(nil, nil, nil, "test-model", logger, pagination.Config{}, metrics.New())
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", classifications.ErrNotFound, http.StatusNotFound},
		{"duplicate", classifications.ErrDuplicate, http.StatusConflict},
		{"empty bulk", classifications.ErrEmptyBulk, http.StatusBadRequest},
		{"bulk limit", classifications.ErrBulkLimit, http.StatusBadRequest},
		{"invalid product", products.ErrInvalid, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", classifications.ErrNotFound), http.StatusNotFound},
		{"wrapped invalid", fmt.Errorf("validate: %w", products.ErrInvalid), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifications.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"product_id":      {"p1"},
			"is_ebt_eligible": {"true"},
			"category":        {"ELIGIBLE_STAPLE_FOOD"},
			"min_confidence":  {"0.8"},
		}

		f := classifications.FiltersFromQuery(values)

		if f.ProductID == nil || *f.ProductID != "p1" {
			t.Errorf("ProductID = %v", f.ProductID)
		}
		if f.IsEligible == nil || !*f.IsEligible {
			t.Errorf("IsEligible = %v", f.IsEligible)
		}
		if f.Category == nil || *f.Category != "ELIGIBLE_STAPLE_FOOD" {
			t.Errorf("Category = %v", f.Category)
		}
		if f.MinConfidence == nil || *f.MinConfidence != 0.8 {
			t.Errorf("MinConfidence = %v", f.MinConfidence)
		}
	})

	t.Run("empty and malformed params ignored", func(t *testing.T) {
		values := url.Values{
			"is_ebt_eligible": {"maybe"},
			"min_confidence":  {"high"},
		}

		f := classifications.FiltersFromQuery(values)

		if f.ProductID != nil || f.IsEligible != nil || f.Category != nil || f.MinConfidence != nil {
			t.Errorf("expected zero filters, got %+v", f)
		}
	})
}

func TestBulkValidation(t *testing.T) {
	sys := testSystem()

	t.Run("empty request", func(t *testing.T) {
		_, err := sys.Bulk(context.Background(), classifications.BulkRequest{})
		if !errors.Is(err, classifications.ErrEmptyBulk) {
			t.Errorf("err = %v, want ErrEmptyBulk", err)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		req := classifications.BulkRequest{
			Products: make([]products.Attributes, classifications.MaxBulkProducts+1),
		}
		_, err := sys.Bulk(context.Background(), req)
		if !errors.Is(err, classifications.ErrBulkLimit) {
			t.Errorf("err = %v, want ErrBulkLimit", err)
		}
	})
}

func TestBulkCountsInvalidProducts(t *testing.T) {
	sys := testSystem()

	// Every product fails validation, so no item reaches storage and the
	// count invariants can be checked without a database.
	req := classifications.BulkRequest{
		Products: []products.Attributes{
			{ProductID: "", ProductName: "No ID"},
			{ProductID: "p2", ProductName: ""},
			{ProductID: "p3", ProductName: "Bad UPC", UPC: ptr("123")},
		},
	}

	result, err := sys.Bulk(context.Background(), req)
	if err != nil {
		t.Fatalf("bulk failed: %v", err)
	}

	if result.TotalProducts != 3 {
		t.Errorf("TotalProducts = %d", result.TotalProducts)
	}
	if result.Successful+result.Failed != result.TotalProducts {
		t.Errorf("successful %d + failed %d != total %d",
			result.Successful, result.Failed, result.TotalProducts)
	}
	if result.Successful != 0 || result.Failed != 3 {
		t.Errorf("Successful = %d, Failed = %d", result.Successful, result.Failed)
	}
	if s := result.Summary; s.EligibleCount+s.IneligibleCount != result.Successful {
		t.Errorf("summary counts %d+%d != successful %d",
			s.EligibleCount, s.IneligibleCount, result.Successful)
	}
}

func TestBulkFailFast(t *testing.T) {
	sys := testSystem()

	req := classifications.BulkRequest{
		Products: []products.Attributes{
			{ProductID: "", ProductName: "No ID"},
		},
		Options: classifications.BulkOptions{FailFast: true},
	}

	if _, err := sys.Bulk(context.Background(), req); err == nil {
		t.Fatal("expected fail-fast error")
	}
}

func ptr[T any](v T) *T { return &v }

package regulations_test

import (
	"strings"
	"testing"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/regulations"
)

func ptr[T any](v T) *T { return &v }

func TestClassificationQuery(t *testing.T) {
	t.Run("name only", func(t *testing.T) {
		q := regulations.ClassificationQuery(&products.Attributes{
			ProductID:   "p1",
			ProductName: "Protein Water",
		})

		if q != "SNAP EBT eligibility for Protein Water" {
			t.Errorf("query = %q", q)
		}
	})

	t.Run("category and description folded in", func(t *testing.T) {
		q := regulations.ClassificationQuery(&products.Attributes{
			ProductID:   "p1",
			ProductName: "Protein Water",
			Category:    ptr("Functional Beverages"),
			Description: ptr("Flavored water with added protein"),
		})

		if !strings.Contains(q, "category: Functional Beverages") {
			t.Errorf("query missing category: %q", q)
		}
		if !strings.Contains(q, "Flavored water with added protein") {
			t.Errorf("query missing description: %q", q)
		}
	})

	t.Run("long description truncated", func(t *testing.T) {
		q := regulations.ClassificationQuery(&products.Attributes{
			ProductID:   "p1",
			ProductName: "Item",
			Description: ptr(strings.Repeat("x", 500)),
		})

		if len(q) > 300 {
			t.Errorf("query length = %d, description not truncated", len(q))
		}
	})
}

func TestPassageCitation(t *testing.T) {
	p := regulations.Passage{
		Document: regulations.Document{
			RegulationID: "7 CFR 271.2",
			Section:      "eligible food",
			Content:      "Eligible food means any food or food product for home consumption.",
			SourceURL:    "https://www.ecfr.gov/current/title-7/section-271.2",
		},
		Relevance: 0.91,
	}

	c := p.Citation()

	if c.RegulationID != "7 CFR 271.2" || c.Section != "eligible food" {
		t.Errorf("citation = %+v", c)
	}
	if c.RelevanceScore != 0.91 {
		t.Errorf("RelevanceScore = %v", c.RelevanceScore)
	}
	if c.Excerpt == "" || c.SourceURL == "" {
		t.Error("excerpt and source url must carry through")
	}
}

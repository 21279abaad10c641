package reasoning

import (
	"testing"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/rules"
)

func ptr[T any](v T) *T { return &v }

func TestParseResponseStructured(t *testing.T) {
	product := &products.Attributes{
		ProductID:   "p1",
		ProductName: "Granola Bar",
		Category:    ptr("Snacks"),
	}

	response := "```json\n" + `{
		"eligibility": "ELIGIBLE",
		"category": "ELIGIBLE_SNACK_FOOD",
		"reasoning": ["Packaged food item", "Sold for home consumption"],
		"key_factors": ["Shelf-stable snack"],
		"citations": [{"regulation_id": "7 CFR 271.2", "section": "eligible food", "excerpt": "staple foods"}]
	}` + "\n```"

	result := parseResponse(response, product)

	if !result.IsEligible {
		t.Fatal("expected eligible")
	}
	if result.Category != rules.EligibleSnackFood {
		t.Errorf("Category = %s, want ELIGIBLE_SNACK_FOOD", result.Category)
	}
	if len(result.ReasoningChain) != 2 {
		t.Errorf("ReasoningChain length = %d, want 2", len(result.ReasoningChain))
	}
	if len(result.Citations) != 1 || result.Citations[0].RegulationID != "7 CFR 271.2" {
		t.Errorf("Citations = %+v", result.Citations)
	}
}

func TestParseResponseCategoryMismatch(t *testing.T) {
	// A category inconsistent with the eligibility verdict is re-inferred.
	product := &products.Attributes{ProductID: "p1", ProductName: "Beer"}

	response := `{
		"eligibility": "INELIGIBLE",
		"category": "ELIGIBLE_BEVERAGE",
		"reasoning": ["Contains alcohol above the threshold"]
	}`

	result := parseResponse(response, product)

	if result.IsEligible {
		t.Fatal("expected ineligible")
	}
	if result.Category.Eligible() {
		t.Errorf("Category = %s, must be an ineligible category", result.Category)
	}
}

func TestParseResponseTextFallback(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		wantEligible bool
		wantCategory rules.Category
	}{
		{
			name:         "ineligible phrase wins over eligible phrase",
			response:     "While the item is eligible for SNAP in some views, it is not eligible because it is an alcohol product.",
			wantEligible: false,
			wantCategory: rules.IneligibleAlcohol,
		},
		{
			name:         "explicit eligibility marker",
			response:     "Eligibility: ELIGIBLE\nThis snack can be purchased with benefits.",
			wantEligible: true,
			wantCategory: rules.EligibleSnackFood,
		},
		{
			name:         "inconclusive defaults to eligible",
			response:     "The analysis was unable to reach a determination on this item.",
			wantEligible: true,
			wantCategory: rules.EligibleOther,
		},
		{
			name:         "supplement language",
			response:     "This product is a dietary supplement and therefore ineligible under SNAP.",
			wantEligible: false,
			wantCategory: rules.IneligibleSupplement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := &products.Attributes{ProductID: "p1", ProductName: "Item"}
			result := parseResponse(tt.response, product)

			if result.IsEligible != tt.wantEligible {
				t.Errorf("IsEligible = %v, want %v", result.IsEligible, tt.wantEligible)
			}
			if result.Category != tt.wantCategory {
				t.Errorf("Category = %s, want %s", result.Category, tt.wantCategory)
			}
		})
	}
}

func TestParseResponseCitationExtraction(t *testing.T) {
	response := "Under 7 CFR 271.2 and FNS Policy guidance, this item is eligible for SNAP purchase."

	result := parseResponse(response, &products.Attributes{ProductID: "p1", ProductName: "Item"})

	if len(result.Citations) != 2 {
		t.Fatalf("Citations length = %d, want 2", len(result.Citations))
	}
	if result.Citations[0].RegulationID != "7 CFR 271.2" {
		t.Errorf("first citation = %s", result.Citations[0].RegulationID)
	}
	if result.Citations[1].RegulationID != "FNS Policy" {
		t.Errorf("second citation = %s", result.Citations[1].RegulationID)
	}
}

func TestParseResponseReasoningSection(t *testing.T) {
	response := `Eligibility: ELIGIBLE
Reasoning:
1. The product is a packaged food item
2. It carries a Nutrition Facts label
3. No disqualifying attributes were found
Key Factors:
- Packaged food
`

	result := parseResponse(response, &products.Attributes{ProductID: "p1", ProductName: "Item"})

	if len(result.ReasoningChain) != 3 {
		t.Fatalf("ReasoningChain = %v, want 3 steps", result.ReasoningChain)
	}
	if result.ReasoningChain[0] != "The product is a packaged food item" {
		t.Errorf("first step = %q", result.ReasoningChain[0])
	}
}

func TestMergeKeyFactorsCapsAndDedupes(t *testing.T) {
	product := &products.Attributes{
		ProductID:   "p1",
		ProductName: "Item",
		Category:    ptr("Snacks"),
		LabelType:   ptr(products.LabelNutritionFacts),
	}

	factors := mergeKeyFactors([]string{
		"Has Nutrition Facts label",
		"one", "two", "three", "four", "five",
	}, product)

	if len(factors) != maxKeyFactors {
		t.Fatalf("factors length = %d, want %d", len(factors), maxKeyFactors)
	}

	seen := map[string]int{}
	for _, f := range factors {
		seen[f]++
		if seen[f] > 1 {
			t.Errorf("duplicate factor %q", f)
		}
	}
}

func TestLookupQuery(t *testing.T) {
	query, ok := lookupQuery("I need more context.\nLOOKUP: hot prepared foods exclusion\n")
	if !ok || query != "hot prepared foods exclusion" {
		t.Errorf("lookupQuery = %q, %v", query, ok)
	}

	if _, ok := lookupQuery("Final answer: eligible."); ok {
		t.Error("expected no lookup request")
	}
}

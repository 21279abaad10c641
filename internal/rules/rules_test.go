package rules_test

import (
	"testing"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/rules"
)

func ptr[T any](v T) *T { return &v }

func label(t products.LabelType) *products.LabelType { return &t }

func TestEvaluateDisqualifyingRules(t *testing.T) {
	tests := []struct {
		name     string
		product  products.Attributes
		category rules.Category
	}{
		{
			name: "alcohol above threshold",
			product: products.Attributes{
				ProductID:      "beer-1",
				ProductName:    "Corona Extra",
				AlcoholContent: ptr(0.045),
			},
			category: rules.IneligibleAlcohol,
		},
		{
			name: "alcohol just above boundary",
			product: products.Attributes{
				ProductID:      "kombucha-1",
				ProductName:    "Strong Kombucha",
				AlcoholContent: ptr(0.0051),
			},
			category: rules.IneligibleAlcohol,
		},
		{
			name: "tobacco",
			product: products.Attributes{
				ProductID:       "cig-1",
				ProductName:     "Cigarettes",
				ContainsTobacco: ptr(true),
			},
			category: rules.IneligibleTobacco,
		},
		{
			name: "hot at point of sale",
			product: products.Attributes{
				ProductID:   "chicken-1",
				ProductName: "Rotisserie Chicken",
				IsHotAtSale: ptr(true),
			},
			category: rules.IneligibleHotFood,
		},
		{
			name: "onsite consumption",
			product: products.Attributes{
				ProductID:              "meal-1",
				ProductName:            "Dine-In Special",
				IsForOnsiteConsumption: ptr(true),
			},
			category: rules.IneligibleOnsiteConsumption,
		},
		{
			name: "supplement facts label",
			product: products.Attributes{
				ProductID:   "vit-1",
				ProductName: "Centrum Multivitamin",
				LabelType:   label(products.LabelSupplementFacts),
			},
			category: rules.IneligibleSupplement,
		},
		{
			name: "cbd",
			product: products.Attributes{
				ProductID:           "cbd-1",
				ProductName:         "CBD Gummies",
				ContainsCBDCannabis: ptr(true),
			},
			category: rules.IneligibleCBDCannabis,
		},
		{
			name: "live animal",
			product: products.Attributes{
				ProductID:    "hen-1",
				ProductName:  "Live Hen",
				IsLiveAnimal: ptr(true),
			},
			category: rules.IneligibleLiveAnimal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := rules.Evaluate(&tt.product)

			if !v.IsDeterministic {
				t.Fatal("expected deterministic verdict")
			}
			if v.IsEligible == nil || *v.IsEligible {
				t.Errorf("IsEligible = %v, want false", v.IsEligible)
			}
			if v.Category == nil || *v.Category != tt.category {
				t.Errorf("Category = %v, want %s", v.Category, tt.category)
			}
			if len(v.ReasoningChain) == 0 {
				t.Error("reasoning chain is empty")
			}
			if len(v.Citations) == 0 {
				t.Error("citations are empty")
			}
		})
	}
}

func TestEvaluateAlcoholBoundary(t *testing.T) {
	// Exactly 0.5% ABV is not disqualifying; the comparison is strict.
	v := rules.Evaluate(&products.Attributes{
		ProductID:      "kombucha-2",
		ProductName:    "Trace Kombucha",
		Category:       ptr("Beverages"),
		LabelType:      label(products.LabelNutritionFacts),
		AlcoholContent: ptr(0.005),
	})

	if !v.IsDeterministic {
		t.Fatal("expected deterministic verdict")
	}
	if v.IsEligible == nil || !*v.IsEligible {
		t.Fatalf("IsEligible = %v, want true", v.IsEligible)
	}
	if *v.Category != rules.EligibleBeverage {
		t.Errorf("Category = %s, want %s", *v.Category, rules.EligibleBeverage)
	}
}

func TestEvaluateRulePriority(t *testing.T) {
	// Alcohol outranks tobacco when both apply.
	v := rules.Evaluate(&products.Attributes{
		ProductID:       "combo-1",
		ProductName:     "Wine and Cigars Basket",
		AlcoholContent:  ptr(0.12),
		ContainsTobacco: ptr(true),
	})

	if v.Category == nil || *v.Category != rules.IneligibleAlcohol {
		t.Errorf("Category = %v, want %s", v.Category, rules.IneligibleAlcohol)
	}
}

func TestEvaluateEligibleFood(t *testing.T) {
	v := rules.Evaluate(&products.Attributes{
		ProductID:   "banana-1",
		ProductName: "Organic Bananas",
		Category:    ptr("Fresh Produce"),
		LabelType:   label(products.LabelNutritionFacts),
	})

	if !v.IsDeterministic {
		t.Fatal("expected deterministic verdict")
	}
	if v.IsEligible == nil || !*v.IsEligible {
		t.Fatalf("IsEligible = %v, want true", v.IsEligible)
	}
	if *v.Category != rules.EligibleStapleFood {
		t.Errorf("Category = %s, want %s", *v.Category, rules.EligibleStapleFood)
	}
}

func TestEvaluateSeedsWithoutLabel(t *testing.T) {
	// Seeds qualify through the positive path even without a nutrition label.
	v := rules.Evaluate(&products.Attributes{
		ProductID:   "seed-1",
		ProductName: "Tomato Seeds",
		Category:    ptr("Garden Seeds"),
	})

	if !v.IsDeterministic {
		t.Fatal("expected deterministic verdict")
	}
	if *v.Category != rules.EligibleSeedsPlants {
		t.Errorf("Category = %s, want %s", *v.Category, rules.EligibleSeedsPlants)
	}
}

func TestEvaluateSeedsSubstringMatch(t *testing.T) {
	// The seeds/plants rule tests the category text directly, so a category
	// that also names an earlier keyword group still qualifies through it.
	v := rules.Evaluate(&products.Attributes{
		ProductID:   "sprout-1",
		ProductName: "Milkweed Plant Starters",
		Category:    ptr("Plant-Based Milk Alternatives"),
	})

	if !v.IsDeterministic {
		t.Fatal("expected deterministic verdict")
	}
	if *v.Category != rules.EligibleSeedsPlants {
		t.Errorf("Category = %s, want %s", *v.Category, rules.EligibleSeedsPlants)
	}
}

func TestEvaluateAmbiguous(t *testing.T) {
	tests := []struct {
		name    string
		product products.Attributes
	}{
		{
			name: "no category no label",
			product: products.Attributes{
				ProductID:   "mystery-1",
				ProductName: "Energy Boost Shot",
			},
		},
		{
			name: "unknown category with label",
			product: products.Attributes{
				ProductID:   "odd-1",
				ProductName: "Protein Water",
				Category:    ptr("Functional Wellness"),
				LabelType:   label(products.LabelNutritionFacts),
			},
		},
		{
			// "Canned" alone is not on the allow-list; only the full
			// "canned goods" category is clearly eligible.
			name: "partial allow-list keyword with label",
			product: products.Attributes{
				ProductID:   "soup-1",
				ProductName: "Canned Tomato Soup",
				Category:    ptr("Canned Soup"),
				LabelType:   label(products.LabelNutritionFacts),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := rules.Evaluate(&tt.product)

			if v.IsDeterministic {
				t.Fatal("expected non-deterministic verdict")
			}
			if v.IsEligible != nil || v.Category != nil {
				t.Error("eligibility and category must be unset")
			}
			if v.AmbiguityReason == "" {
				t.Error("ambiguity reason is empty")
			}
		})
	}
}

func TestInferEligibleCategory(t *testing.T) {
	tests := []struct {
		category string
		want     rules.Category
	}{
		{"Fresh Produce", rules.EligibleStapleFood},
		{"Dairy & Eggs", rules.EligibleStapleFood},
		{"Sports Drinks", rules.EligibleBeverage},
		{"Chips & Candy", rules.EligibleSnackFood},
		{"Infant Formula", rules.EligibleBabyFood},
		{"Cooking Oil", rules.EligibleCookingIngredient},
		{"Herb Seeds", rules.EligibleSeedsPlants},
		{"Something Else", rules.EligibleOther},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := rules.InferEligibleCategory(tt.category); got != tt.want {
				t.Errorf("InferEligibleCategory(%q) = %s, want %s", tt.category, got, tt.want)
			}
		})
	}
}

func TestCategoryEligible(t *testing.T) {
	if !rules.EligibleStapleFood.Eligible() {
		t.Error("EligibleStapleFood should be eligible")
	}
	if rules.IneligibleAlcohol.Eligible() {
		t.Error("IneligibleAlcohol should not be eligible")
	}
	if rules.Category("BOGUS").Valid() {
		t.Error("unknown category should be invalid")
	}
}

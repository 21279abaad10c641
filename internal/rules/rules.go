// Package rules implements the deterministic eligibility rule chain derived
// from 7 CFR 271.2 and FNS policy. Rules are an explicit ordered list of
// named predicate/outcome pairs evaluated first-match-wins, so the priority
// order is visible and each rule is independently testable.
package rules

import (
	"fmt"
	"strings"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/regulations"
)

// AlcoholThreshold is the alcohol-by-volume fraction above which a product
// is an alcoholic beverage (0.5% ABV). The comparison is strict.
const AlcoholThreshold = 0.005

// Verdict is the outcome of rule evaluation. When IsDeterministic is false,
// IsEligible and Category are unset and AmbiguityReason explains why the
// rules could not resolve the product.
type Verdict struct {
	IsDeterministic bool                   `json:"is_deterministic"`
	IsEligible      *bool                  `json:"is_eligible,omitempty"`
	Category        *Category              `json:"category,omitempty"`
	ReasoningChain  []string               `json:"reasoning_chain"`
	Citations       []regulations.Citation `json:"citations"`
	KeyFactors      []string               `json:"key_factors"`
	AmbiguityReason string                 `json:"ambiguity_reason,omitempty"`
}

// rule pairs a named predicate with the verdict it produces. The outcome
// function is only invoked when the predicate matches.
type rule struct {
	name    string
	matches func(a *products.Attributes) bool
	outcome func(a *products.Attributes) Verdict
}

// chain is the ordered rule list. Order is significant: the first matching
// rule wins, so alcohol takes priority over tobacco, disqualifying rules
// take priority over the positive path, and the positive path takes
// priority over the ambiguous fallthrough.
var chain = []rule{
	{
		name: "alcohol",
		matches: func(a *products.Attributes) bool {
			return a.AlcoholContent != nil && *a.AlcoholContent > AlcoholThreshold
		},
		outcome: func(a *products.Attributes) Verdict {
			return ineligible(IneligibleAlcohol, "alcohol",
				[]string{
					fmt.Sprintf("Product contains %.1f%% alcohol", *a.AlcoholContent*100),
					"Alcoholic beverages are explicitly excluded from SNAP eligibility",
				},
				[]string{"Contains alcohol above 0.5% ABV"},
			)
		},
	},
	{
		name: "tobacco",
		matches: func(a *products.Attributes) bool {
			return products.Flag(a.ContainsTobacco)
		},
		outcome: func(a *products.Attributes) Verdict {
			return ineligible(IneligibleTobacco, "tobacco",
				[]string{
					"Product contains tobacco or nicotine",
					"Tobacco products are explicitly excluded from SNAP eligibility",
				},
				[]string{"Contains tobacco/nicotine"},
			)
		},
	},
	{
		name: "hot_food",
		matches: func(a *products.Attributes) bool {
			return products.Flag(a.IsHotAtSale)
		},
		outcome: func(a *products.Attributes) Verdict {
			return ineligible(IneligibleHotFood, "hot_food",
				[]string{
					"Product is hot at point of sale",
					"Hot foods ready for immediate consumption are not eligible",
				},
				[]string{"Hot at point of sale"},
			)
		},
	},
	{
		name: "onsite_consumption",
		matches: func(a *products.Attributes) bool {
			return products.Flag(a.IsForOnsiteConsumption)
		},
		outcome: func(a *products.Attributes) Verdict {
			return ineligible(IneligibleOnsiteConsumption, "onsite_consumption",
				[]string{
					"Product is intended for on-premises consumption",
					"Foods for on-premises consumption are not eligible",
				},
				[]string{"Intended for on-premises consumption"},
			)
		},
	},
	{
		name: "supplement",
		matches: func(a *products.Attributes) bool {
			return a.HasLabel(products.LabelSupplementFacts)
		},
		outcome: func(a *products.Attributes) Verdict {
			return ineligible(IneligibleSupplement, "supplement",
				[]string{
					"Product has a Supplement Facts label (not Nutrition Facts)",
					"Items with Supplement Facts labels are classified as supplements, not food",
				},
				[]string{"Has Supplement Facts label"},
			)
		},
	},
	{
		name: "cbd_cannabis",
		matches: func(a *products.Attributes) bool {
			return products.Flag(a.ContainsCBDCannabis)
		},
		outcome: func(a *products.Attributes) Verdict {
			return ineligible(IneligibleCBDCannabis, "cbd_cannabis",
				[]string{
					"Product contains CBD, cannabis, or controlled substances",
					"Products with cannabis-derived ingredients are not eligible",
				},
				[]string{"Contains CBD/cannabis"},
			)
		},
	},
	{
		// No shellfish/fish/pre-slaughter exception modeled here; callers
		// must leave the flag unset for excepted animals.
		name: "live_animal",
		matches: func(a *products.Attributes) bool {
			return products.Flag(a.IsLiveAnimal)
		},
		outcome: func(a *products.Attributes) Verdict {
			return ineligible(IneligibleLiveAnimal, "live_animal",
				[]string{
					"Product is a live animal",
					"Live animals are not eligible (except shellfish, fish removed from water, animals slaughtered before pickup)",
				},
				[]string{"Live animal"},
			)
		},
	},
	{
		name: "eligible_food",
		matches: func(a *products.Attributes) bool {
			return a.HasLabel(products.LabelNutritionFacts) &&
				isClearlyEligibleCategory(a.CategoryValue())
		},
		outcome: func(a *products.Attributes) Verdict {
			category := InferEligibleCategory(a.CategoryValue())
			return eligible(category, "eligible_food",
				[]string{
					fmt.Sprintf("Product category %q is a standard food category", a.CategoryValue()),
					"Product has Nutrition Facts label (not Supplement Facts)",
					"No disqualifying factors found (alcohol, tobacco, hot, etc.)",
					"Product is eligible as a standard food item for home consumption",
				},
				[]string{
					"Has Nutrition Facts label",
					"Category: " + a.CategoryValue(),
				},
			)
		},
	},
	{
		name: "seeds_plants",
		matches: func(a *products.Attributes) bool {
			if a.Category == nil {
				return false
			}
			category := strings.ToLower(a.CategoryValue())
			return strings.Contains(category, "seed") ||
				strings.Contains(category, "plant")
		},
		outcome: func(a *products.Attributes) Verdict {
			return eligible(EligibleSeedsPlants, "seeds_plants",
				[]string{
					fmt.Sprintf("Product is in category %q", a.CategoryValue()),
					"Seeds and plants that produce food are eligible",
				},
				[]string{"Seeds/plants for food production"},
			)
		},
	},
}

// Evaluate runs the ordered rule chain over product attributes. Pure
// function: no I/O, no side effects. Returns a non-deterministic verdict
// with an ambiguity reason when no rule matches.
func Evaluate(a *products.Attributes) Verdict {
	for _, r := range chain {
		if r.matches(a) {
			return r.outcome(a)
		}
	}

	keyFactors := []string{}
	if a.HasLabel(products.LabelNutritionFacts) {
		keyFactors = append(keyFactors, "Has Nutrition Facts label")
	}

	return Verdict{
		IsDeterministic: false,
		ReasoningChain: []string{
			"Initial rule-based validation passed (no disqualifying factors)",
			"Product requires AI reasoning for final classification",
		},
		Citations:       []regulations.Citation{},
		KeyFactors:      keyFactors,
		AmbiguityReason: "Product does not match clear-cut rules; AI reasoning required",
	}
}

func ineligible(category Category, citationKey string, reasoning, factors []string) Verdict {
	no := false
	return Verdict{
		IsDeterministic: true,
		IsEligible:      &no,
		Category:        &category,
		ReasoningChain:  reasoning,
		Citations:       []regulations.Citation{citations[citationKey]},
		KeyFactors:      factors,
	}
}

func eligible(category Category, citationKey string, reasoning, factors []string) Verdict {
	yes := true
	return Verdict{
		IsDeterministic: true,
		IsEligible:      &yes,
		Category:        &category,
		ReasoningChain:  reasoning,
		Citations:       []regulations.Citation{citations[citationKey]},
		KeyFactors:      factors,
	}
}

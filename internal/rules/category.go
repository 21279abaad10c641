package rules

import "strings"

// Category is the closed enumeration of classification outcomes. Eligible
// categories always pair with an eligible verdict, ineligible categories
// with an ineligible one.
type Category string

// Eligible categories.
const (
	EligibleStapleFood        Category = "ELIGIBLE_STAPLE_FOOD"
	EligibleSnackFood         Category = "ELIGIBLE_SNACK_FOOD"
	EligibleBeverage          Category = "ELIGIBLE_BEVERAGE"
	EligibleCookingIngredient Category = "ELIGIBLE_COOKING_INGREDIENT"
	EligibleBabyFood          Category = "ELIGIBLE_BABY_FOOD"
	EligibleSeedsPlants       Category = "ELIGIBLE_SEEDS_PLANTS"
	EligibleOther             Category = "ELIGIBLE_OTHER"
)

// Ineligible categories.
const (
	IneligibleAlcohol            Category = "INELIGIBLE_ALCOHOL"
	IneligibleTobacco            Category = "INELIGIBLE_TOBACCO"
	IneligibleHotFood            Category = "INELIGIBLE_HOT_FOOD"
	IneligibleOnsiteConsumption  Category = "INELIGIBLE_ONSITE_CONSUMPTION"
	IneligibleSupplement         Category = "INELIGIBLE_SUPPLEMENT"
	IneligibleMedicine           Category = "INELIGIBLE_MEDICINE"
	IneligibleNonFood            Category = "INELIGIBLE_NON_FOOD"
	IneligibleLiveAnimal         Category = "INELIGIBLE_LIVE_ANIMAL"
	IneligibleCBDCannabis        Category = "INELIGIBLE_CBD_CANNABIS"
	IneligibleOther              Category = "INELIGIBLE_OTHER"
)

// Eligible reports whether the category represents an eligible outcome.
func (c Category) Eligible() bool {
	return strings.HasPrefix(string(c), "ELIGIBLE_")
}

// Valid reports whether the category belongs to the closed enumeration.
func (c Category) Valid() bool {
	switch c {
	case EligibleStapleFood, EligibleSnackFood, EligibleBeverage,
		EligibleCookingIngredient, EligibleBabyFood, EligibleSeedsPlants,
		EligibleOther,
		IneligibleAlcohol, IneligibleTobacco, IneligibleHotFood,
		IneligibleOnsiteConsumption, IneligibleSupplement, IneligibleMedicine,
		IneligibleNonFood, IneligibleLiveAnimal, IneligibleCBDCannabis,
		IneligibleOther:
		return true
	}
	return false
}

// clearlyEligibleCategories lists category keywords that mark a product as
// a standard food category for the rule-based positive path.
var clearlyEligibleCategories = []string{
	"produce", "fruits", "vegetables",
	"meat", "poultry", "fish", "seafood",
	"dairy", "milk", "cheese", "yogurt",
	"bread", "bakery", "cereals", "grains", "pasta",
	"canned goods", "frozen foods",
	"snacks", "beverages",
	"condiments", "spices",
	"baby food", "infant formula",
}

// categoryKeywords maps keyword groups to eligible categories, checked in
// order. The first group with a match wins.
var categoryKeywords = []struct {
	keywords []string
	category Category
}{
	{[]string{"meat", "poultry", "fish", "seafood"}, EligibleStapleFood},
	{[]string{"produce", "fruit", "vegetable"}, EligibleStapleFood},
	{[]string{"dairy", "milk", "cheese", "yogurt"}, EligibleStapleFood},
	{[]string{"bread", "bakery", "cereal", "grain", "pasta"}, EligibleStapleFood},
	{[]string{"beverage", "drink", "juice", "soda"}, EligibleBeverage},
	{[]string{"snack", "chip", "candy", "cookie"}, EligibleSnackFood},
	{[]string{"baby", "infant", "formula"}, EligibleBabyFood},
	{[]string{"spice", "condiment", "sauce", "oil"}, EligibleCookingIngredient},
	{[]string{"seed", "plant"}, EligibleSeedsPlants},
	{[]string{"frozen", "canned", "prepared", "ready"}, EligibleStapleFood},
}

// isClearlyEligibleCategory reports whether a category string matches the
// allow-list of known food categories.
func isClearlyEligibleCategory(category string) bool {
	lower := strings.ToLower(category)
	for _, keyword := range clearlyEligibleCategories {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// InferEligibleCategory maps a free-form category string to the most
// specific eligible category by keyword matching, defaulting to
// EligibleOther.
func InferEligibleCategory(category string) Category {
	lower := strings.ToLower(category)
	for _, group := range categoryKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				return group.category
			}
		}
	}
	return EligibleOther
}

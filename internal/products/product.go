// Package products defines the product attribute input model for the
// classification pipeline, along with validation, evidence merging, and
// canonical request hashing.
package products

// LabelType identifies the kind of nutrition labeling on a product package.
type LabelType string

// Recognized nutrition label types.
const (
	LabelNutritionFacts  LabelType = "nutrition_facts"
	LabelSupplementFacts LabelType = "supplement_facts"
	LabelNone            LabelType = "none"
)

// Attributes is the caller-supplied description of a product under
// classification. ProductID and ProductName are required; every other field
// is optional and an unset field means "unknown", never "disqualifying".
type Attributes struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	UPC         *string `json:"upc,omitempty"`

	Ingredients []string   `json:"ingredients,omitempty"`
	LabelType   *LabelType `json:"nutrition_label_type,omitempty"`

	IsHotAtSale           *bool    `json:"is_hot_at_sale,omitempty"`
	IsForOnsiteConsumption *bool   `json:"is_for_onsite_consumption,omitempty"`
	AlcoholContent        *float64 `json:"alcohol_content,omitempty"`
	ContainsTobacco       *bool    `json:"contains_tobacco,omitempty"`
	ContainsCBDCannabis   *bool    `json:"contains_cbd_cannabis,omitempty"`
	IsLiveAnimal          *bool    `json:"is_live_animal,omitempty"`
}

// CategoryValue returns the category string, or empty when unset.
func (a *Attributes) CategoryValue() string {
	if a.Category == nil {
		return ""
	}
	return *a.Category
}

// Label returns the nutrition label type, or LabelNone when unset.
func (a *Attributes) Label() LabelType {
	if a.LabelType == nil {
		return LabelNone
	}
	return *a.LabelType
}

// HasLabel reports whether the product carries the given label type.
func (a *Attributes) HasLabel(t LabelType) bool {
	return a.LabelType != nil && *a.LabelType == t
}

// Flag reports a tri-state boolean attribute as a plain bool,
// treating unset as false.
func Flag(b *bool) bool {
	return b != nil && *b
}

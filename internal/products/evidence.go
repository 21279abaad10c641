package products

import (
	"encoding/json"
	"fmt"
)

// evidenceFields maps challenge evidence keys to attribute JSON fields.
// Evidence may use either the attribute field name directly or the
// prefixed alias accepted from dispute submissions.
var evidenceFields = map[string]string{
	"new_nutrition_label_type":  "nutrition_label_type",
	"nutrition_label_type":      "nutrition_label_type",
	"updated_ingredients":       "ingredients",
	"ingredients":               "ingredients",
	"new_category":              "category",
	"category":                  "category",
	"new_description":           "description",
	"description":               "description",
	"is_hot_at_sale":            "is_hot_at_sale",
	"is_for_onsite_consumption": "is_for_onsite_consumption",
	"alcohol_content":           "alcohol_content",
	"contains_tobacco":          "contains_tobacco",
	"contains_cbd_cannabis":     "contains_cbd_cannabis",
	"is_live_animal":            "is_live_animal",
}

// ApplyEvidence merges challenge evidence on top of original attributes.
// Recognized evidence fields override the original values; everything else
// in the original is retained. Unrecognized evidence keys are ignored.
// The original is not modified.
func ApplyEvidence(original *Attributes, evidence map[string]any) (*Attributes, error) {
	raw, err := json.Marshal(original)
	if err != nil {
		return nil, fmt.Errorf("marshal original attributes: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal original attributes: %w", err)
	}

	for key, value := range evidence {
		if field, ok := evidenceFields[key]; ok {
			fields[field] = value
		}
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal merged attributes: %w", err)
	}

	var updated Attributes
	if err := json.Unmarshal(merged, &updated); err != nil {
		return nil, fmt.Errorf("unmarshal merged attributes: %w", err)
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	return &updated, nil
}

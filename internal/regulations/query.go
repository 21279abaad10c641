package regulations

import (
	"strings"

	"github.com/asklokesh/ebt/internal/products"
)

// maxDescriptionQueryLength bounds how much free-form description text is
// folded into a retrieval query.
const maxDescriptionQueryLength = 200

// ClassificationQuery builds the retrieval query used to gather regulation
// context for an ambiguous product.
func ClassificationQuery(a *products.Attributes) string {
	parts := []string{"SNAP EBT eligibility for " + a.ProductName}

	if a.Category != nil {
		parts = append(parts, "category: "+*a.Category)
	}

	if a.Description != nil {
		desc := *a.Description
		if len(desc) > maxDescriptionQueryLength {
			desc = desc[:maxDescriptionQueryLength]
		}
		parts = append(parts, desc)
	}

	return strings.Join(parts, " ")
}

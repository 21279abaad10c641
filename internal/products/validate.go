package products

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation limits for caller-supplied fields.
const (
	MaxProductIDLength   = 100
	MaxProductNameLength = 500
)

// ErrInvalid is the sentinel for input validation failures. Specific
// validation errors wrap it so callers can match with errors.Is.
var ErrInvalid = errors.New("invalid product attributes")

var upcPattern = regexp.MustCompile(`^\d{12,14}$`)

// Validate checks required identity fields and the format of optional
// fields, normalizing whitespace in place. Validation failures are reported
// before the pipeline runs and are never persisted.
func (a *Attributes) Validate() error {
	a.ProductID = strings.TrimSpace(a.ProductID)
	if a.ProductID == "" {
		return fmt.Errorf("%w: product_id is required", ErrInvalid)
	}
	if len(a.ProductID) > MaxProductIDLength {
		return fmt.Errorf("%w: product_id exceeds %d characters", ErrInvalid, MaxProductIDLength)
	}

	a.ProductName = strings.TrimSpace(a.ProductName)
	if a.ProductName == "" {
		return fmt.Errorf("%w: product_name is required", ErrInvalid)
	}
	if len(a.ProductName) > MaxProductNameLength {
		return fmt.Errorf("%w: product_name exceeds %d characters", ErrInvalid, MaxProductNameLength)
	}

	if a.UPC != nil {
		upc := strings.TrimSpace(*a.UPC)
		if upc == "" {
			a.UPC = nil
		} else if !upcPattern.MatchString(upc) {
			return fmt.Errorf("%w: upc %q must be 12-14 digits", ErrInvalid, upc)
		} else {
			a.UPC = &upc
		}
	}

	if a.AlcoholContent != nil {
		if *a.AlcoholContent < 0.0 || *a.AlcoholContent > 1.0 {
			return fmt.Errorf(
				"%w: alcohol_content %v outside [0.0, 1.0]",
				ErrInvalid, *a.AlcoholContent,
			)
		}
	}

	if a.LabelType != nil {
		switch *a.LabelType {
		case LabelNutritionFacts, LabelSupplementFacts, LabelNone:
		default:
			return fmt.Errorf("%w: unknown nutrition_label_type %q", ErrInvalid, *a.LabelType)
		}
	}

	a.Description = sanitize(a.Description)
	a.Category = sanitize(a.Category)
	a.Brand = sanitize(a.Brand)

	return nil
}

// sanitize trims surrounding whitespace and collapses internal runs of
// whitespace to single spaces. Empty results become nil.
func sanitize(s *string) *string {
	if s == nil {
		return nil
	}

	cleaned := strings.Join(strings.Fields(*s), " ")
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

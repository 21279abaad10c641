package products

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// RequestHash computes the canonical content hash of a set of product
// attributes, used for deduplication. Unset fields are excluded and object
// keys are serialized in sorted order, so two requests differing only in
// omitted fields hash identically.
func RequestHash(a *Attributes) (string, error) {
	normalized, err := normalize(a)
	if err != nil {
		return "", fmt.Errorf("normalize attributes: %w", err)
	}

	// encoding/json marshals map keys in sorted order, giving a stable
	// canonical form.
	canonical, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("marshal canonical form: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

func normalize(a *Attributes) (map[string]any, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	for k, v := range fields {
		if v == nil {
			delete(fields, k)
		}
	}

	return fields, nil
}

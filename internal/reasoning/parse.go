package reasoning

import (
	"regexp"
	"strings"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/regulations"
	"github.com/asklokesh/ebt/internal/rules"
	"github.com/asklokesh/ebt/pkg/formatting"
)

const (
	maxReasoningSteps = 10
	maxKeyFactors     = 5
)

// modelResponse is the structured shape the agent is instructed to return.
type modelResponse struct {
	Eligibility string          `json:"eligibility"`
	Category    string          `json:"category"`
	Reasoning   []string        `json:"reasoning"`
	KeyFactors  []string        `json:"key_factors"`
	Citations   []modelCitation `json:"citations"`
}

type modelCitation struct {
	RegulationID string `json:"regulation_id"`
	Section      string `json:"section"`
	Excerpt      string `json:"excerpt"`
}

var (
	lookupPattern   = regexp.MustCompile(`(?im)^\s*LOOKUP:\s*(.+)$`)
	categoryPattern = regexp.MustCompile(`(?i)category:\s*([A-Z_]+)`)
	numberedPattern = regexp.MustCompile(`^\s*\d+\.\s*(.+)$`)
	cfrPattern      = regexp.MustCompile(`(?i)7\s*CFR\s*(?:section\s*)?(?:§\s*)?271\.2`)
	fnsPattern      = regexp.MustCompile(`(?i)FNS\s+(?:Policy|guidance|rule)`)
)

// lookupQuery extracts a regulation lookup request from a model response.
func lookupQuery(response string) (string, bool) {
	m := lookupPattern.FindStringSubmatch(response)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// parseResponse turns raw model output into a Result. Structured JSON is
// preferred; free text falls back to keyword scanning, where negative
// phrases take precedence so an uncertain response never reads as eligible
// by accident.
func parseResponse(response string, a *products.Attributes) *Result {
	if parsed, err := formatting.Parse[modelResponse](response); err == nil && parsed.Eligibility != "" {
		return fromStructured(parsed, a)
	}
	return fromText(response, a)
}

func fromStructured(m modelResponse, a *products.Attributes) *Result {
	eligible := strings.EqualFold(strings.TrimSpace(m.Eligibility), "ELIGIBLE")

	category := rules.Category(strings.ToUpper(strings.TrimSpace(m.Category)))
	if !category.Valid() || category.Eligible() != eligible {
		category = inferCategory(strings.ToLower(m.Category), eligible)
	}

	citations := make([]regulations.Citation, 0, len(m.Citations))
	for _, c := range m.Citations {
		citations = append(citations, regulations.Citation{
			RegulationID:   c.RegulationID,
			Section:        c.Section,
			Excerpt:        c.Excerpt,
			RelevanceScore: 0.9,
		})
	}

	return &Result{
		IsEligible:     eligible,
		Category:       category,
		ReasoningChain: capSlice(m.Reasoning, maxReasoningSteps),
		Citations:      citations,
		KeyFactors:     mergeKeyFactors(m.KeyFactors, a),
		DataSources:    []string{"AI Reasoning Agent", "Regulation Vector Store"},
	}
}

func fromText(response string, a *products.Attributes) *Result {
	lower := strings.ToLower(response)
	eligible := extractEligibility(lower)

	return &Result{
		IsEligible:     eligible,
		Category:       extractCategory(response, lower, eligible),
		ReasoningChain: extractReasoning(response),
		Citations:      extractCitations(response),
		KeyFactors:     mergeKeyFactors(extractKeyFactors(response), a),
		DataSources:    []string{"AI Reasoning Agent", "Regulation Vector Store"},
	}
}

func extractEligibility(lower string) bool {
	if strings.Contains(lower, "eligibility: eligible") {
		return true
	}
	if strings.Contains(lower, "eligibility: ineligible") {
		return false
	}

	ineligiblePhrases := []string{
		"not eligible",
		"ineligible",
		"cannot be purchased",
		"not allowed",
		"prohibited",
		"excluded from snap",
	}
	for _, phrase := range ineligiblePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	eligiblePhrases := []string{
		"is eligible",
		"eligible for snap",
		"can be purchased",
		"allowed under snap",
		"permitted",
	}
	for _, phrase := range eligiblePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	// Food items default to eligible when the response is inconclusive.
	return true
}

func extractCategory(response, lower string, eligible bool) rules.Category {
	if m := categoryPattern.FindStringSubmatch(response); m != nil {
		category := rules.Category(strings.ToUpper(m[1]))
		if category.Valid() {
			return category
		}
	}
	return inferCategory(lower, eligible)
}

func inferCategory(lower string, eligible bool) rules.Category {
	if !eligible {
		switch {
		case strings.Contains(lower, "alcohol"):
			return rules.IneligibleAlcohol
		case strings.Contains(lower, "tobacco"):
			return rules.IneligibleTobacco
		case strings.Contains(lower, "hot") && strings.Contains(lower, "food"):
			return rules.IneligibleHotFood
		case strings.Contains(lower, "supplement"):
			return rules.IneligibleSupplement
		case strings.Contains(lower, "medicine") || strings.Contains(lower, "vitamin"):
			return rules.IneligibleMedicine
		case strings.Contains(lower, "cbd") || strings.Contains(lower, "cannabis"):
			return rules.IneligibleCBDCannabis
		case strings.Contains(lower, "live animal"):
			return rules.IneligibleLiveAnimal
		case strings.Contains(lower, "non-food") || strings.Contains(lower, "non food"):
			return rules.IneligibleNonFood
		default:
			return rules.IneligibleOther
		}
	}

	switch {
	case strings.Contains(lower, "staple"):
		return rules.EligibleStapleFood
	case strings.Contains(lower, "snack"):
		return rules.EligibleSnackFood
	case strings.Contains(lower, "beverage") || strings.Contains(lower, "drink"):
		return rules.EligibleBeverage
	case strings.Contains(lower, "baby") || strings.Contains(lower, "infant"):
		return rules.EligibleBabyFood
	case strings.Contains(lower, "seed") || strings.Contains(lower, "plant"):
		return rules.EligibleSeedsPlants
	case strings.Contains(lower, "cooking") || strings.Contains(lower, "ingredient"):
		return rules.EligibleCookingIngredient
	default:
		return rules.EligibleOther
	}
}

func extractReasoning(response string) []string {
	var reasoning []string

	inSection := false
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.Contains(strings.ToLower(line), "reasoning") && strings.Contains(line, ":") {
			inSection = true
			continue
		}

		if !inSection {
			continue
		}

		if trimmed != "" && !isDigit(trimmed[0]) && strings.Contains(line, ":") {
			inSection = false
			continue
		}

		if m := numberedPattern.FindStringSubmatch(line); m != nil {
			reasoning = append(reasoning, strings.TrimSpace(m[1]))
		} else if strings.HasPrefix(trimmed, "-") {
			reasoning = append(reasoning, strings.TrimSpace(trimmed[1:]))
		}
	}

	// No structured section: pull key sentences instead.
	if len(reasoning) == 0 {
		sentences := regexp.MustCompile(`[.!?]+`).Split(response, -1)
		for i, sentence := range sentences {
			if i >= 5 {
				break
			}
			sentence = strings.TrimSpace(sentence)
			if len(sentence) <= 20 {
				continue
			}
			lower := strings.ToLower(sentence)
			for _, kw := range []string{"eligible", "ineligible", "snap", "because", "therefore"} {
				if strings.Contains(lower, kw) {
					reasoning = append(reasoning, sentence)
					break
				}
			}
		}
	}

	return capSlice(reasoning, maxReasoningSteps)
}

func extractKeyFactors(response string) []string {
	var factors []string

	lower := strings.ToLower(response)
	if !strings.Contains(lower, "key_factors") && !strings.Contains(lower, "key factors") {
		return factors
	}

	inSection := false
	for _, line := range strings.Split(response, "\n") {
		lineLower := strings.ToLower(line)
		if strings.Contains(lineLower, "key_factors") || strings.Contains(lineLower, "key factors") {
			inSection = true
			continue
		}

		if !inSection {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") {
			factors = append(factors, strings.TrimSpace(trimmed[1:]))
		} else if trimmed != "" && strings.Contains(line, ":") {
			inSection = false
		}
	}

	return factors
}

// mergeKeyFactors appends product-derived factors and deduplicates,
// preserving first-seen order.
func mergeKeyFactors(factors []string, a *products.Attributes) []string {
	if a.HasLabel(products.LabelNutritionFacts) {
		factors = append(factors, "Has Nutrition Facts label")
	} else if a.HasLabel(products.LabelSupplementFacts) {
		factors = append(factors, "Has Supplement Facts label")
	}

	if a.Category != nil {
		factors = append(factors, "Category: "+*a.Category)
	}

	seen := make(map[string]struct{}, len(factors))
	deduped := make([]string, 0, len(factors))
	for _, f := range factors {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		deduped = append(deduped, f)
	}

	return capSlice(deduped, maxKeyFactors)
}

func extractCitations(response string) []regulations.Citation {
	citations := []regulations.Citation{}

	if cfrPattern.MatchString(response) {
		citations = append(citations, regulations.Citation{
			RegulationID:   "7 CFR 271.2",
			Section:        "eligible food",
			Excerpt:        "Referenced in AI analysis",
			RelevanceScore: 0.9,
			SourceURL:      "https://www.ecfr.gov/current/title-7/section-271.2",
		})
	}

	if fnsPattern.MatchString(response) {
		citations = append(citations, regulations.Citation{
			RegulationID:   "FNS Policy",
			Section:        "eligible food items",
			Excerpt:        "Referenced in AI analysis",
			RelevanceScore: 0.85,
			SourceURL:      "https://www.fns.usda.gov/snap/eligible-food-items",
		})
	}

	return citations
}

func capSlice(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

package reasoning

import (
	"fmt"
	"strings"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/regulations"
	"github.com/asklokesh/ebt/internal/rules"
)

const systemPrompt = `You are an expert SNAP/EBT eligibility classification agent. You determine
whether retail products are eligible for purchase with SNAP (Supplemental
Nutrition Assistance Program) benefits based on federal regulations.

Classification rules (7 CFR 271.2):

ELIGIBLE items (CAN be purchased with SNAP):
- Any food or food product for home consumption
- Seeds and plants that produce food for human consumption
- Non-alcoholic beverages with Nutrition Facts labels
- Snack foods, candy, ice cream (despite low nutrition value)
- Cold prepared foods not for on-premises consumption

INELIGIBLE items (CANNOT be purchased with SNAP):
- Alcoholic beverages (any alcohol content above 0.5%)
- Tobacco products (including e-cigarettes, vapes)
- Hot foods or foods sold for immediate consumption
- Foods for on-premises consumption
- Vitamins, medicines, supplements (items with Supplement Facts label)
- Non-food items (pet food, cleaning supplies, cosmetics)
- Live animals (except shellfish, fish removed from water)
- CBD/cannabis-infused products

Key distinction: a Nutrition Facts label means food (potentially eligible);
a Supplement Facts label means supplement (ineligible).

If you need more regulation text before deciding, respond with a single line:
LOOKUP: <search query>

Otherwise respond with ONLY a JSON object in this exact shape:
{
  "eligibility": "ELIGIBLE" or "INELIGIBLE",
  "category": "<one of the classification category codes>",
  "reasoning": ["step 1", "step 2", ...],
  "key_factors": ["factor 1", ...],
  "citations": [{"regulation_id": "...", "section": "...", "excerpt": "..."}]
}

Always cite specific regulations when making decisions.`

// buildPrompt composes product attributes, the partial rule analysis, and
// retrieved regulation context into the opening session prompt.
func buildPrompt(a *products.Attributes, verdict rules.Verdict, passages []regulations.Passage) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	b.WriteString("\n\nClassify this product for SNAP/EBT eligibility:\n\n")
	b.WriteString("## Product Information\n")
	fmt.Fprintf(&b, "- Product ID: %s\n", a.ProductID)
	fmt.Fprintf(&b, "- Name: %s\n", a.ProductName)
	fmt.Fprintf(&b, "- Description: %s\n", orDefault(a.Description, "Not provided"))
	fmt.Fprintf(&b, "- Category: %s\n", orDefault(a.Category, "Unknown"))
	fmt.Fprintf(&b, "- Brand: %s\n", orDefault(a.Brand, "Unknown"))
	fmt.Fprintf(&b, "- UPC: %s\n", orDefault(a.UPC, "Not provided"))
	fmt.Fprintf(&b, "- Ingredients: %s\n", ingredientsLine(a.Ingredients))
	fmt.Fprintf(&b, "- Label Type: %s\n", labelLine(a.LabelType))
	fmt.Fprintf(&b, "- Hot at Sale: %s\n", flagLine(a.IsHotAtSale, "Unknown"))
	fmt.Fprintf(&b, "- For On-site Consumption: %s\n", flagLine(a.IsForOnsiteConsumption, "Unknown"))
	fmt.Fprintf(&b, "- Alcohol Content: %s\n", alcoholLine(a.AlcoholContent))
	fmt.Fprintf(&b, "- Contains Tobacco: %s\n", flagLine(a.ContainsTobacco, "Unknown"))
	fmt.Fprintf(&b, "- Contains CBD/Cannabis: %s\n", flagLine(a.ContainsCBDCannabis, "Unknown"))
	fmt.Fprintf(&b, "- Is Live Animal: %s\n", flagLine(a.IsLiveAnimal, "No"))

	b.WriteString("\n## Partial Rule Analysis\n")
	b.WriteString(formatPartialAnalysis(verdict))

	b.WriteString("\n\n## Retrieved Regulations\n")
	b.WriteString(FormatPassages(passages))

	b.WriteString("\n\n## Instructions\n")
	b.WriteString("1. Analyze all product attributes against SNAP rules\n")
	b.WriteString("2. Consider the retrieved regulations\n")
	b.WriteString("3. Provide step-by-step reasoning\n")
	b.WriteString("4. Cite specific regulations\n")
	b.WriteString("5. Return the final classification as the JSON object described above\n")

	return b.String()
}

// followUpPrompt continues the session after a LOOKUP round trip.
func followUpPrompt(query string, passages []regulations.Passage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Regulation lookup results for %q:\n\n", query)
	b.WriteString(FormatPassages(passages))
	b.WriteString("\n\nContinue your analysis. Respond with another LOOKUP line only if ")
	b.WriteString("strictly necessary, otherwise return the final JSON classification.")
	return b.String()
}

func formatPartialAnalysis(verdict rules.Verdict) string {
	parts := []string{
		"Previous Rule Analysis:",
		fmt.Sprintf("- Deterministic: %t", verdict.IsDeterministic),
		fmt.Sprintf("- Reasoning: %s", strings.Join(verdict.ReasoningChain, "; ")),
		fmt.Sprintf("- Key factors: %s", strings.Join(verdict.KeyFactors, ", ")),
	}
	if verdict.AmbiguityReason != "" {
		parts = append(parts, "- Ambiguity reason: "+verdict.AmbiguityReason)
	}
	return strings.Join(parts, "\n")
}

// FormatPassages renders retrieval hits as prompt context.
func FormatPassages(passages []regulations.Passage) string {
	if len(passages) == 0 {
		return "No regulations retrieved."
	}

	var b strings.Builder
	b.WriteString("Relevant SNAP Regulations:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "\n%d. [%s, %s] (relevance %.2f)\n%s\n",
			i+1, p.Document.RegulationID, p.Document.Section, p.Relevance, p.Document.Content)
	}
	return b.String()
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func ingredientsLine(ingredients []string) string {
	if len(ingredients) == 0 {
		return "Not provided"
	}
	return strings.Join(ingredients, ", ")
}

func labelLine(t *products.LabelType) string {
	if t == nil {
		return "Unknown"
	}
	return string(*t)
}

func flagLine(b *bool, def string) string {
	if b == nil {
		return def
	}
	if *b {
		return "Yes"
	}
	return "No"
}

func alcoholLine(v *float64) string {
	if v == nil {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

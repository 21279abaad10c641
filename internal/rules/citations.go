package rules

import "github.com/asklokesh/ebt/internal/regulations"

// Fixed citations keyed by rule name. Disqualifying rules cite the exact
// regulation text that excludes the product; the positive path cites the
// general eligible-food definition.
var citations = map[string]regulations.Citation{
	"alcohol": {
		RegulationID:   "7 CFR 271.2",
		Section:        "eligible food",
		Excerpt:        "Eligible food means any food or food product for home consumption except alcoholic beverages",
		RelevanceScore: 1.0,
		SourceURL:      "https://www.ecfr.gov/current/title-7/section-271.2",
	},
	"tobacco": {
		RegulationID:   "7 CFR 271.2",
		Section:        "eligible food",
		Excerpt:        "Eligible food means any food or food product for home consumption except tobacco",
		RelevanceScore: 1.0,
		SourceURL:      "https://www.ecfr.gov/current/title-7/section-271.2",
	},
	"hot_food": {
		RegulationID:   "7 CFR 271.2",
		Section:        "eligible food",
		Excerpt:        "Hot foods or hot food products ready for immediate consumption are not eligible",
		RelevanceScore: 1.0,
		SourceURL:      "https://www.ecfr.gov/current/title-7/section-271.2",
	},
	"onsite_consumption": {
		RegulationID:   "7 CFR 271.2",
		Section:        "eligible food",
		Excerpt:        "Foods prepared for on-premises consumption are not eligible for SNAP purchase",
		RelevanceScore: 1.0,
		SourceURL:      "https://www.ecfr.gov/current/title-7/section-271.2",
	},
	"supplement": {
		RegulationID:   "FNS Policy",
		Section:        "eligible food items",
		Excerpt:        "Any item that has a Supplement Facts label is considered a supplement and is not eligible for SNAP purchase",
		RelevanceScore: 1.0,
		SourceURL:      "https://www.fns.usda.gov/snap/eligible-food-items",
	},
	"cbd_cannabis": {
		RegulationID:   "FNS Policy",
		Section:        "eligible food items",
		Excerpt:        "Food containing cannabis-derived products, such as CBD, and any other controlled substances, are not eligible to be purchased with SNAP benefits",
		RelevanceScore: 1.0,
		SourceURL:      "https://www.fns.usda.gov/snap/food-determinations-eligible-foods",
	},
	"live_animal": {
		RegulationID:   "FNS Policy",
		Section:        "eligible food items",
		Excerpt:        "Live animals (except shellfish, fish removed from water, and animals slaughtered prior to pick-up from the store) are not eligible",
		RelevanceScore: 1.0,
		SourceURL:      "https://www.fns.usda.gov/snap/eligible-food-items",
	},
	"eligible_food": {
		RegulationID:   "7 CFR 271.2",
		Section:        "eligible food",
		Excerpt:        "Any food or food product for home consumption",
		RelevanceScore: 0.9,
		SourceURL:      "https://www.ecfr.gov/current/title-7/section-271.2",
	},
	"seeds_plants": {
		RegulationID:   "7 CFR 271.2",
		Section:        "eligible food",
		Excerpt:        "Seeds and plants for use in gardens to produce food for personal consumption",
		RelevanceScore: 1.0,
		SourceURL:      "https://www.ecfr.gov/current/title-7/section-271.2",
	},
}

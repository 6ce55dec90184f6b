// Package querygen produces the natural-language discovery queries a report
// run submits to every provider.
package querygen

import (
	"strings"

	"github.com/sells-group/visibility-cli/internal/model"
)

// template is one query pattern with its intent tag. Placeholders
// {location} and {business_type} are substituted at generation time.
type template struct {
	text   string
	intent model.QueryIntent
	desc   string
}

// categoryTemplates maps a normalized business category to its template set.
// Categories not listed here fall back to genericTemplates.
var categoryTemplates = map[string][]template{
	"coffee shop": {
		{"best coffee shops in {location}", model.IntentDiscovery, "local discovery"},
		{"where can I get good espresso in {location}", model.IntentDiscovery, "product discovery"},
		{"top rated cafes near {location}", model.IntentDiscovery, "rated discovery"},
		{"compare the best coffee shops in {location}", model.IntentComparison, "head-to-head comparison"},
		{"which coffee shop in {location} has the best atmosphere for working", model.IntentSpecific, "use-case specific"},
		{"coffee shops in {location} with the best reviews", model.IntentReviews, "review roundup"},
	},
	"restaurant": {
		{"best restaurants in {location}", model.IntentDiscovery, "local discovery"},
		{"where should I eat dinner in {location}", model.IntentDiscovery, "meal discovery"},
		{"compare popular restaurants in {location}", model.IntentComparison, "head-to-head comparison"},
		{"which restaurant in {location} is best for a date night", model.IntentSpecific, "use-case specific"},
		{"highest reviewed restaurants in {location}", model.IntentReviews, "review roundup"},
	},
	"salon": {
		{"best hair salons in {location}", model.IntentDiscovery, "local discovery"},
		{"where to get a haircut in {location}", model.IntentDiscovery, "service discovery"},
		{"compare hair salons in {location}", model.IntentComparison, "head-to-head comparison"},
		{"which salon in {location} is best for color treatment", model.IntentSpecific, "use-case specific"},
		{"salons in {location} with great customer reviews", model.IntentReviews, "review roundup"},
	},
	"gym": {
		{"best gyms in {location}", model.IntentDiscovery, "local discovery"},
		{"affordable fitness centers in {location}", model.IntentDiscovery, "price discovery"},
		{"compare gyms in {location}", model.IntentComparison, "head-to-head comparison"},
		{"which gym in {location} has the best group classes", model.IntentSpecific, "use-case specific"},
		{"top reviewed gyms in {location}", model.IntentReviews, "review roundup"},
	},
	"dentist": {
		{"best dentists in {location}", model.IntentDiscovery, "local discovery"},
		{"recommended family dentist in {location}", model.IntentDiscovery, "service discovery"},
		{"compare dental practices in {location}", model.IntentComparison, "head-to-head comparison"},
		{"which dentist in {location} is best for anxious patients", model.IntentSpecific, "use-case specific"},
		{"dentists in {location} with the best patient reviews", model.IntentReviews, "review roundup"},
	},
	"auto repair": {
		{"best auto repair shops in {location}", model.IntentDiscovery, "local discovery"},
		{"trustworthy mechanics in {location}", model.IntentDiscovery, "trust discovery"},
		{"compare auto repair shops in {location}", model.IntentComparison, "head-to-head comparison"},
		{"which mechanic in {location} is best for European cars", model.IntentSpecific, "use-case specific"},
		{"highest rated auto shops in {location}", model.IntentReviews, "review roundup"},
	},
}

// genericTemplates serve any unrecognized category.
var genericTemplates = []template{
	{"best {business_type} in {location}", model.IntentDiscovery, "local discovery"},
	{"recommended {business_type} near {location}", model.IntentDiscovery, "recommendation discovery"},
	{"compare the top {business_type} options in {location}", model.IntentComparison, "head-to-head comparison"},
	{"which {business_type} in {location} should I choose", model.IntentSpecific, "choice specific"},
	{"{business_type} in {location} with the best reviews", model.IntentReviews, "review roundup"},
}

// Generate builds up to count queries for the business. Custom queries come
// first, verbatim; remaining slots cycle the category's template list. The
// cycle stops once templates have been exhausted twice, so a sparse category
// can produce fewer than count queries.
func Generate(businessName, businessType, location string, customQueries []string, count int) []model.GeneratedQuery {
	if count <= 0 {
		return nil
	}

	queries := make([]model.GeneratedQuery, 0, count)
	for _, q := range customQueries {
		if len(queries) >= count {
			break
		}
		queries = append(queries, model.GeneratedQuery{
			Text:     q,
			Intent:   model.IntentSpecific,
			Template: "custom query",
		})
	}

	templates := templatesFor(businessType)
	for pass := 0; pass < 2 && len(queries) < count; pass++ {
		for _, tpl := range templates {
			if len(queries) >= count {
				break
			}
			queries = append(queries, model.GeneratedQuery{
				Text:     expand(tpl.text, businessType, location),
				Intent:   tpl.intent,
				Template: tpl.desc,
			})
		}
	}
	return queries
}

func templatesFor(businessType string) []template {
	key := strings.ToLower(strings.TrimSpace(businessType))
	if tpls, ok := categoryTemplates[key]; ok {
		return tpls
	}
	// Loose matching for common aliases ("fitness gym", "espresso coffee shop").
	if len(key) >= 3 {
		for _, cat := range categoryOrder {
			if strings.Contains(key, cat) {
				return categoryTemplates[cat]
			}
		}
	}
	return genericTemplates
}

// categoryOrder fixes the alias-matching order; longer names first so
// "coffee shop" wins over substrings of other categories.
var categoryOrder = []string{"coffee shop", "auto repair", "restaurant", "dentist", "salon", "gym"}

func expand(text, businessType, location string) string {
	text = strings.ReplaceAll(text, "{location}", location)
	text = strings.ReplaceAll(text, "{business_type}", businessType)
	return text
}

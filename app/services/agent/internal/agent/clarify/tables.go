package clarify

import (
	"fmt"
	"strings"

	"TripShopper/app/services/agent/internal/agent/intent"
)

type hintRule struct {
	keywords    []string
	suggestions []string
}

// categoryHints map style and occasion words to the categories offered when
// the category is still unknown. The first matching rule wins.
var categoryHints = []hintRule{
	{[]string{"rain", "waterproof", "wet", "storm"}, []string{"Raincoats", "Waterproof boots", "Umbrellas"}},
	{[]string{"warm", "cold", "winter", "cozy", "snow", "ski"}, []string{"Jackets", "Sweaters", "Boots"}},
	{[]string{"wedding", "formal", "gala", "party", "elegant", "cocktail"}, []string{"Dresses", "Suits", "Dress shoes"}},
	{[]string{"hike", "hiking", "trek", "outdoor", "camping", "trail"}, []string{"Hiking boots", "Backpacks", "Rain jackets"}},
	{[]string{"beach", "summer", "hot", "tropical", "swim"}, []string{"Swimwear", "Sandals", "Sunglasses"}},
	{[]string{"business", "work", "office", "meeting", "conference"}, []string{"Blazers", "Dress shirts", "Loafers"}},
	{[]string{"gym", "running", "sport", "workout", "athletic"}, []string{"Running shoes", "Activewear", "Gym bags"}},
}

var defaultCategories = []string{"Shoes", "Jackets", "Dresses", "Accessories"}

var (
	destinationSuggestions = []string{"Paris", "Tokyo", "New York", "Just everyday wear"}
	occasionSuggestions    = []string{"Wedding", "Business trip", "Casual weekend", "Outdoor adventure"}
	datesSuggestions       = []string{"This weekend", "Next weekend", "Next week"}
	budgetSuggestions      = []string{"Under $50", "Under $100", "Under $200"}
)

func suggestionsFor(f Field, in intent.Intent) []string {
	var out []string
	switch f {
	case FieldCategory:
		out = defaultCategories
		hint := strings.ToLower(in.Style + " " + in.Occasion + " " + in.Subcategory)
		for _, rule := range categoryHints {
			if containsAny(hint, rule.keywords) {
				out = rule.suggestions
				break
			}
		}
	case FieldDestination:
		out = destinationSuggestions
	case FieldDates:
		out = datesSuggestions
	case FieldOccasionStyle:
		out = occasionSuggestions
	case FieldBudget:
		out = budgetSuggestions
	}
	return append([]string(nil), out...)
}

func templateQuestion(f Field, in intent.Intent) string {
	switch f {
	case FieldCategory:
		if in.Style != "" {
			return fmt.Sprintf("Something %s, got it. What kind of item are you shopping for?", in.Style)
		}
		if in.Occasion != "" {
			return fmt.Sprintf("Happy to help with your %s. What kind of item are you shopping for?", in.Occasion)
		}
		return "What kind of item are you shopping for today?"
	case FieldDestination:
		return fmt.Sprintf("Are you buying %s for a trip? If so, where are you headed?", in.Category)
	case FieldDates:
		return fmt.Sprintf("When are you travelling to %s?", in.Location)
	case FieldOccasionStyle:
		return fmt.Sprintf("What occasion or style do you have in mind for the %s?", in.Category)
	case FieldBudget:
		return "Do you have a budget in mind?"
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

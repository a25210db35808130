package recommend

import (
	"strings"

	"TripShopper/app/services/agent/internal/agent/contextagg"
	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/provider/catalog"
)

const (
	coldBelowC = 10
	hotAboveC  = 25
)

// BuildQuery turns the intent and context into a search text plus hard
// filters. Weather at the destinations only influences the text. Out of
// stock products are never recommended.
func BuildQuery(in intent.Intent, bundle *contextagg.Bundle, topK int) catalog.Query {
	var terms []string
	seen := make(map[string]struct{})
	add := func(words ...string) {
		for _, w := range words {
			w = strings.TrimSpace(w)
			key := strings.ToLower(w)
			if w == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			terms = append(terms, w)
		}
	}

	add(in.Style, in.Subcategory, in.Category)
	if in.Occasion != "" {
		add("for " + in.Occasion)
	}
	add(in.Brand)

	if bundle != nil {
		for _, r := range bundle.Environmental.Readings() {
			add(weatherHints(r)...)
		}
		if bundle.Profile != nil && in.Style == "" && len(bundle.Profile.Preferences.Styles) > 0 {
			add(bundle.Profile.Preferences.Styles[0])
		}
	}

	return catalog.Query{
		Text: strings.Join(terms, " "),
		Filters: catalog.Filters{
			Category: in.Category,
			MinPrice: in.BudgetMin,
			MaxPrice: in.BudgetMax,
			Gender:   in.Gender,
			Size:     in.Size,
			Brand:    in.Brand,

			InStockOnly: true,
		},
		TopK: topK,
	}
}

func weatherHints(r contextagg.Reading) []string {
	w := r.Weather
	if w == nil {
		return nil
	}
	var hints []string
	switch {
	case w.TemperatureC < coldBelowC:
		hints = append(hints, "warm", "winter")
	case w.TemperatureC > hotAboveC:
		hints = append(hints, "light", "breathable", "summer")
	}
	if w.Rainy() {
		hints = append(hints, "waterproof", "rain")
	}
	return hints
}

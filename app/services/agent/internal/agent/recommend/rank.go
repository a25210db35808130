package recommend

import (
	"sort"
	"strings"

	"TripShopper/app/services/agent/internal/provider/catalog"
)

// Rank orders candidates with catalog.Before and keeps only the best entry
// of variants sharing a base name. The first pass takes at most one product
// per subcategory; remaining slots are backfilled in rank order. At most
// limit products are returned, still in rank order.
func Rank(candidates []catalog.Scored, limit int) []catalog.Product {
	if limit <= 0 {
		return nil
	}
	sorted := append([]catalog.Scored(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return catalog.Before(sorted[i], sorted[j])
	})

	unique := make([]catalog.Scored, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, s := range sorted {
		key := baseName(s.Name)
		if key == "" {
			key = "id:" + s.ID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, s)
	}

	picked := make([]bool, len(unique))
	count := 0
	subcategories := make(map[string]struct{})
	for i, s := range unique {
		if count >= limit {
			break
		}
		if sub := strings.ToLower(strings.TrimSpace(s.Subcategory)); sub != "" {
			if _, ok := subcategories[sub]; ok {
				continue
			}
			subcategories[sub] = struct{}{}
		}
		picked[i] = true
		count++
	}
	for i := range unique {
		if count >= limit {
			break
		}
		if !picked[i] {
			picked[i] = true
			count++
		}
	}

	out := make([]catalog.Product, 0, count)
	for i, s := range unique {
		if picked[i] {
			out = append(out, s.Product)
		}
	}
	return out
}

// baseName strips a " — <variant>" suffix such as a colour.
func baseName(name string) string {
	if idx := strings.Index(name, " — "); idx >= 0 {
		name = name[:idx]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

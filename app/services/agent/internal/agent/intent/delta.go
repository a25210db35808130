package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDelta validates raw tool arguments into an intent delta. Fields that
// fail validation are dropped and reported; valid fields are kept.
func ParseDelta(raw map[string]any, now time.Time) (Intent, []string) {
	var (
		delta   Intent
		dropped []string
	)

	delta.Category = strings.ToLower(toString(raw["category"]))
	delta.Subcategory = strings.ToLower(toString(raw["subcategory"]))
	delta.Occasion = toString(raw["occasion"])
	delta.Style = toString(raw["style"])
	delta.Brand = toString(raw["brand"])
	delta.Gender = normalizeGender(toString(raw["gender"]))
	delta.Size = strings.ToUpper(toString(raw["size"]))
	delta.Location = toString(raw["location"])

	if v, ok := raw["budget_max"]; ok && v != nil {
		if amount, ok := toAmount(v); ok && amount > 0 {
			delta.BudgetMax = amount
		} else {
			dropped = append(dropped, fmt.Sprintf("budget_max=%v", v))
		}
	}
	if v, ok := raw["budget_min"]; ok && v != nil {
		if amount, ok := toAmount(v); ok && amount > 0 {
			delta.BudgetMin = amount
		} else {
			dropped = append(dropped, fmt.Sprintf("budget_min=%v", v))
		}
	}
	if delta.BudgetMin > 0 && delta.BudgetMax > 0 && delta.BudgetMin > delta.BudgetMax {
		dropped = append(dropped, fmt.Sprintf("budget_min=%v exceeds budget_max", delta.BudgetMin))
		delta.BudgetMin = 0
	}

	if expr := toString(raw["travel_dates"]); expr != "" {
		if r, err := ParseDateRange(expr, now); err == nil {
			delta.TravelDates = &r
		} else {
			dropped = append(dropped, fmt.Sprintf("travel_dates=%q: %v", expr, err))
		}
	}

	for idx, item := range toSlice(raw["trip_segments"]) {
		seg, err := parseSegment(item, now)
		if err != nil {
			dropped = append(dropped, fmt.Sprintf("trip_segments[%d]: %v", idx, err))
			continue
		}
		delta.TripSegments = append(delta.TripSegments, seg)
	}

	// One stop is a single-destination trip that still replaces the old plan.
	if len(delta.TripSegments) == 1 {
		seg := delta.TripSegments[0]
		delta.TripSegments = nil
		delta.Location = seg.Destination
		delta.TravelDates = &DateRange{Start: seg.StartDate, End: seg.EndDate}
		delta.replacesTrip = true
	}

	return delta, dropped
}

func parseSegment(item any, now time.Time) (TripSegment, error) {
	fields, ok := item.(map[string]any)
	if !ok {
		return TripSegment{}, fmt.Errorf("unexpected segment payload %T", item)
	}
	seg := TripSegment{Destination: toString(fields["destination"])}
	if seg.Destination == "" {
		return TripSegment{}, ErrMissingDestination
	}

	startExpr := toString(fields["start_date"])
	endExpr := toString(fields["end_date"])
	var (
		r   DateRange
		err error
	)
	switch {
	case startExpr != "" && endExpr != "":
		r, err = parsePair(normalizeDateExpr(startExpr), normalizeDateExpr(endExpr), DateOf(now))
		if errors.Is(err, ErrUnparsableDate) {
			r, err = ParseDateRange(startExpr+" to "+endExpr, now)
		}
	case startExpr != "":
		r, err = ParseDateRange(startExpr, now)
	case endExpr != "":
		r, err = ParseDateRange(endExpr, now)
	default:
		err = ErrMissingDates
	}
	if err != nil {
		return TripSegment{}, fmt.Errorf("%s: %w", seg.Destination, err)
	}

	seg.StartDate, seg.EndDate = r.Start, r.End
	if err := seg.Validate(); err != nil {
		return TripSegment{}, err
	}
	return seg, nil
}

func normalizeGender(v string) string {
	switch strings.ToLower(v) {
	case "":
		return ""
	case "male", "man", "men", "mens", "men's":
		return "men"
	case "female", "woman", "women", "womens", "women's":
		return "women"
	case "unisex", "any":
		return "unisex"
	default:
		return strings.ToLower(v)
	}
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func toSlice(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case []map[string]any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, item)
		}
		return out
	default:
		return nil
	}
}

func toAmount(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, val)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

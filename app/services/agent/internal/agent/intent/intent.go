package intent

import "strings"

// TripSegment is one stop of a multi-destination trip.
type TripSegment struct {
	Destination string `json:"destination"`
	StartDate   Date   `json:"start_date"`
	EndDate     Date   `json:"end_date"`
}

func (s TripSegment) Validate() error {
	if strings.TrimSpace(s.Destination) == "" {
		return ErrMissingDestination
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return ErrMissingDates
	}
	if s.EndDate.Before(s.StartDate.Time) {
		return ErrInvertedDates
	}
	return nil
}

// DateRange holds the travel dates of a single-destination trip.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Intent is the accumulated understanding of what the shopper wants.
// Zero values mean "not stated yet".
type Intent struct {
	Category     string        `json:"category,omitempty"`
	Subcategory  string        `json:"subcategory,omitempty"`
	Occasion     string        `json:"occasion,omitempty"`
	Style        string        `json:"style,omitempty"`
	Brand        string        `json:"brand,omitempty"`
	Gender       string        `json:"gender,omitempty"`
	Size         string        `json:"size,omitempty"`
	BudgetMin    float64       `json:"budget_min,omitempty"`
	BudgetMax    float64       `json:"budget_max,omitempty"`
	Location     string        `json:"location,omitempty"`
	TravelDates  *DateRange    `json:"travel_dates,omitempty"`
	TripSegments []TripSegment `json:"trip_segments,omitempty"`

	// replacesTrip marks a delta whose single destination supersedes any
	// accumulated trip segments.
	replacesTrip bool
}

func (i Intent) IsEmpty() bool {
	return i.Category == "" && i.Subcategory == "" && i.Occasion == "" && i.Style == "" &&
		i.Brand == "" && i.Gender == "" && i.Size == "" && i.BudgetMin <= 0 && i.BudgetMax <= 0 &&
		i.Location == "" && i.TravelDates == nil && len(i.TripSegments) == 0
}

// Fields lists the populated field names, in declaration order.
func (i Intent) Fields() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	add(i.Category != "", "category")
	add(i.Subcategory != "", "subcategory")
	add(i.Occasion != "", "occasion")
	add(i.Style != "", "style")
	add(i.Brand != "", "brand")
	add(i.Gender != "", "gender")
	add(i.Size != "", "size")
	add(i.BudgetMin > 0, "budget_min")
	add(i.BudgetMax > 0, "budget_max")
	add(i.Location != "", "location")
	add(i.TravelDates != nil, "travel_dates")
	add(len(i.TripSegments) > 0, "trip_segments")
	return out
}

// Merge applies delta on top of acc. Present delta fields win, absent ones
// keep the accumulated value. Trip segments are only replaced as a whole,
// either by a non-empty list or by a lone stop parsed into Location.
func Merge(acc, delta Intent) Intent {
	out := acc
	out.replacesTrip = false
	out.TripSegments = cloneSegments(acc.TripSegments)
	if delta.replacesTrip {
		out.TripSegments = nil
	}

	overwrite(&out.Category, delta.Category)
	overwrite(&out.Subcategory, delta.Subcategory)
	overwrite(&out.Occasion, delta.Occasion)
	overwrite(&out.Style, delta.Style)
	overwrite(&out.Brand, delta.Brand)
	overwrite(&out.Gender, delta.Gender)
	overwrite(&out.Size, delta.Size)
	overwrite(&out.Location, delta.Location)

	if delta.BudgetMin > 0 {
		out.BudgetMin = delta.BudgetMin
	}
	if delta.BudgetMax > 0 {
		out.BudgetMax = delta.BudgetMax
	}
	if delta.TravelDates != nil {
		dates := *delta.TravelDates
		out.TravelDates = &dates
	}
	if len(delta.TripSegments) > 0 {
		out.TripSegments = cloneSegments(delta.TripSegments)
	}
	return out
}

func overwrite(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func cloneSegments(in []TripSegment) []TripSegment {
	if len(in) == 0 {
		return nil
	}
	return append([]TripSegment(nil), in...)
}

// Destination is either SingleDestination or MultiSegment.
type Destination interface {
	destination()
}

type SingleDestination struct {
	Location string
	Dates    *DateRange
}

type MultiSegment struct {
	Segments []TripSegment
}

func (SingleDestination) destination() {}
func (MultiSegment) destination()      {}

// Destination reports where the shopper is headed. The shape depends only on
// whether trip segments are present; nil means no destination at all.
func (i Intent) Destination() Destination {
	if len(i.TripSegments) > 0 {
		return MultiSegment{Segments: cloneSegments(i.TripSegments)}
	}
	if i.Location != "" {
		return SingleDestination{Location: i.Location, Dates: i.TravelDates}
	}
	return nil
}

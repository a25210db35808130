package contextagg

import (
	"time"

	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/provider/environment"
	"TripShopper/app/services/agent/internal/provider/profile"
)

// Status is the outcome of one collaborator call.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

type Reading struct {
	Location      string               `json:"location"`
	Date          string               `json:"date,omitempty"`
	Weather       *environment.Weather `json:"weather,omitempty"`
	WeatherStatus Status               `json:"weather_status"`
	Trends        []string             `json:"trends,omitempty"`
	TrendsStatus  Status               `json:"trends_status"`
	Events        []environment.Event  `json:"events,omitempty"`
	EventsStatus  Status               `json:"events_status"`
}

type SegmentReading struct {
	Segment intent.TripSegment `json:"segment"`
	Reading
}

type Kind string

const (
	KindSingle   Kind = "single"
	KindSegments Kind = "segments"
)

// Environmental holds either one reading or one reading per trip segment,
// never both.
type Environmental struct {
	Kind     Kind             `json:"kind"`
	Single   *Reading         `json:"single,omitempty"`
	Segments []SegmentReading `json:"segments,omitempty"`
}

func NewSingle(r Reading) *Environmental {
	return &Environmental{Kind: KindSingle, Single: &r}
}

func NewSegments(segments []SegmentReading) *Environmental {
	return &Environmental{Kind: KindSegments, Segments: segments}
}

// Readings flattens the environmental data in trip order.
func (e *Environmental) Readings() []Reading {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case KindSingle:
		if e.Single == nil {
			return nil
		}
		return []Reading{*e.Single}
	case KindSegments:
		out := make([]Reading, 0, len(e.Segments))
		for _, s := range e.Segments {
			out = append(out, s.Reading)
		}
		return out
	}
	return nil
}

// Bundle is the context a recommendation is personalized with. A new
// bundle replaces the previous one; bundles are not mutated after Aggregate
// returns.
type Bundle struct {
	CustomerID    string           `json:"customer_id,omitempty"`
	Profile       *profile.Profile `json:"customer_profile,omitempty"`
	ProfileStatus Status           `json:"profile_status"`
	Environmental *Environmental   `json:"environmental,omitempty"`
	BuiltAt       time.Time        `json:"built_at"`
}

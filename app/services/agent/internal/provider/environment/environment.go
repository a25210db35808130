package environment

import (
	"context"
	"errors"
	"time"
)

var ErrUnknownLocation = errors.New("location could not be resolved")

type Weather struct {
	Location        string  `json:"location"`
	Date            string  `json:"date,omitempty"`
	TemperatureC    float64 `json:"temperature_c"`
	PrecipitationMM float64 `json:"precipitation_mm"`
	Code            int     `json:"weather_code"`
	Description     string  `json:"description"`
	Source          string  `json:"source"`
}

const (
	SourceCurrent  = "current"
	SourceForecast = "forecast"
	SourceEstimate = "estimate"
)

// Rainy reports whether the weather code describes drizzle, rain or storms.
func (w *Weather) Rainy() bool {
	if w == nil {
		return false
	}
	return (w.Code >= 51 && w.Code <= 67) || (w.Code >= 80 && w.Code <= 82) || w.Code >= 95
}

type Event struct {
	Title            string `json:"title"`
	Type             string `json:"type"`
	Start            string `json:"start"`
	Venue            string `json:"venue,omitempty"`
	URL              string `json:"url,omitempty"`
	WeatherSensitive bool   `json:"weather_sensitive"`
}

// A nil date means "now" for every source.
type (
	WeatherSource interface {
		Weather(ctx context.Context, location string, date *time.Time) (*Weather, error)
	}

	TrendSource interface {
		Trends(ctx context.Context, location string) ([]string, error)
	}

	EventSource interface {
		Events(ctx context.Context, location string, date *time.Time) ([]Event, error)
	}

	Provider interface {
		WeatherSource
		TrendSource
		EventSource
	}
)

type composite struct {
	WeatherSource
	TrendSource
	EventSource
}

// Compose joins independent sources into one Provider. A nil event source
// yields no events.
func Compose(weather WeatherSource, trends TrendSource, events EventSource) Provider {
	if events == nil {
		events = noEvents{}
	}
	return composite{WeatherSource: weather, TrendSource: trends, EventSource: events}
}

type noEvents struct{}

func (noEvents) Events(context.Context, string, *time.Time) ([]Event, error) {
	return nil, nil
}

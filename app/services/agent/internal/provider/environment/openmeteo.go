package environment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpc"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"

	forecastHorizonDays = 16
)

type OpenMeteoConf struct {
	ForecastURL string `json:",default=https://api.open-meteo.com/v1/forecast"`
	GeocodeURL  string `json:",default=https://geocoding-api.open-meteo.com/v1/search"`
}

type coordinates struct {
	lat, lon float64
}

var knownCoordinates = map[string]coordinates{
	"paris":         {48.8566, 2.3522},
	"london":        {51.5074, -0.1278},
	"new york":      {40.7128, -74.0060},
	"los angeles":   {34.0522, -118.2437},
	"tokyo":         {35.6762, 139.6503},
	"sydney":        {-33.8688, 151.2093},
	"dubai":         {25.2048, 55.2708},
	"miami":         {25.7617, -80.1918},
	"seattle":       {47.6062, -122.3321},
	"chicago":       {41.8781, -87.6298},
	"san francisco": {37.7749, -122.4194},
	"boston":        {42.3601, -71.0589},
	"rome":          {41.9028, 12.4964},
	"barcelona":     {41.3851, 2.1734},
	"berlin":        {52.5200, 13.4050},
	"amsterdam":     {52.3676, 4.9041},
	"singapore":     {1.3521, 103.8198},
	"hong kong":     {22.3193, 114.1694},
	"bangkok":       {13.7563, 100.5018},
	"mumbai":        {19.0760, 72.8777},
}

var weatherDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	80: "Rain showers",
	81: "Heavy rain showers",
	95: "Thunderstorm",
}

func DescribeWeatherCode(code int) string {
	if d, ok := weatherDescriptions[code]; ok {
		return d
	}
	return "Unknown"
}

// OpenMeteo resolves weather through the open-meteo geocoding and forecast
// APIs. Travel dates beyond the forecast horizon get a latitude based
// climate estimate.
type OpenMeteo struct {
	client      httpc.Service
	forecastURL string
	geocodeURL  string
	now         func() time.Time
}

func NewOpenMeteo(c OpenMeteoConf) *OpenMeteo {
	o := &OpenMeteo{
		client:      httpc.NewService("open-meteo"),
		forecastURL: c.ForecastURL,
		geocodeURL:  c.GeocodeURL,
		now:         time.Now,
	}
	if o.forecastURL == "" {
		o.forecastURL = DefaultForecastURL
	}
	if o.geocodeURL == "" {
		o.geocodeURL = DefaultGeocodeURL
	}
	return o
}

func (o *OpenMeteo) Weather(ctx context.Context, location string, date *time.Time) (*Weather, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrUnknownLocation
	}

	coords, err := o.resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	today := truncateDay(o.now())
	if date == nil || !truncateDay(*date).After(today) {
		return o.current(ctx, location, coords)
	}

	day := truncateDay(*date)
	if day.Sub(today) > forecastHorizonDays*24*time.Hour {
		return climateEstimate(location, day, coords), nil
	}
	return o.daily(ctx, location, day, coords)
}

func (o *OpenMeteo) resolve(ctx context.Context, location string) (coordinates, error) {
	var geo struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	params := url.Values{}
	params.Set("name", location)
	params.Set("count", "1")
	err := getJSON(ctx, o.client, o.geocodeURL, params, &geo)
	if err == nil && len(geo.Results) > 0 {
		return coordinates{lat: geo.Results[0].Latitude, lon: geo.Results[0].Longitude}, nil
	}
	if err != nil {
		logx.WithContext(ctx).Infow("geocoding failed, using known coordinates",
			logx.Field("location", location), logx.Field("err", err))
	}

	if c, ok := knownCoordinates[strings.ToLower(location)]; ok {
		return c, nil
	}
	return coordinates{}, fmt.Errorf("%w: %s", ErrUnknownLocation, location)
}

func (o *OpenMeteo) current(ctx context.Context, location string, c coordinates) (*Weather, error) {
	var resp struct {
		Current struct {
			Temperature   float64 `json:"temperature_2m"`
			Precipitation float64 `json:"precipitation"`
			WeatherCode   int     `json:"weather_code"`
		} `json:"current"`
	}
	params := coordParams(c)
	params.Set("current", "temperature_2m,precipitation,weather_code")
	if err := getJSON(ctx, o.client, o.forecastURL, params, &resp); err != nil {
		return nil, fmt.Errorf("current weather for %s: %w", location, err)
	}
	return &Weather{
		Location:        location,
		Date:            truncateDay(o.now()).Format(time.DateOnly),
		TemperatureC:    resp.Current.Temperature,
		PrecipitationMM: resp.Current.Precipitation,
		Code:            resp.Current.WeatherCode,
		Description:     DescribeWeatherCode(resp.Current.WeatherCode),
		Source:          SourceCurrent,
	}, nil
}

func (o *OpenMeteo) daily(ctx context.Context, location string, day time.Time, c coordinates) (*Weather, error) {
	var resp struct {
		Daily struct {
			TempMax       []float64 `json:"temperature_2m_max"`
			TempMin       []float64 `json:"temperature_2m_min"`
			Precipitation []float64 `json:"precipitation_sum"`
			WeatherCode   []int     `json:"weather_code"`
		} `json:"daily"`
	}
	params := coordParams(c)
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,weather_code")
	params.Set("start_date", day.Format(time.DateOnly))
	params.Set("end_date", day.Format(time.DateOnly))
	if err := getJSON(ctx, o.client, o.forecastURL, params, &resp); err != nil {
		return nil, fmt.Errorf("forecast for %s: %w", location, err)
	}
	d := resp.Daily
	if len(d.TempMax) == 0 || len(d.TempMin) == 0 || len(d.WeatherCode) == 0 {
		return nil, fmt.Errorf("forecast for %s: empty daily series", location)
	}

	w := &Weather{
		Location:     location,
		Date:         day.Format(time.DateOnly),
		TemperatureC: math.Round((d.TempMax[0]+d.TempMin[0])/2*10) / 10,
		Code:         d.WeatherCode[0],
		Description:  DescribeWeatherCode(d.WeatherCode[0]),
		Source:       SourceForecast,
	}
	if len(d.Precipitation) > 0 {
		w.PrecipitationMM = d.Precipitation[0]
	}
	return w, nil
}

func climateEstimate(location string, day time.Time, c coordinates) *Weather {
	var (
		temp float64
		desc string
	)
	switch lat := math.Abs(c.lat); {
	case lat < 23.5:
		temp, desc = 28, "Tropical climate"
	case lat < 35:
		temp, desc = 22, "Subtropical climate"
	case lat < 50:
		temp, desc = 15, "Temperate climate"
	default:
		temp, desc = 8, "Cool climate"
	}
	return &Weather{
		Location:     location,
		Date:         day.Format(time.DateOnly),
		TemperatureC: temp,
		Code:         -1,
		Description:  desc + " (estimated)",
		Source:       SourceEstimate,
	}
}

func coordParams(c coordinates) url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(c.lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(c.lon, 'f', 4, 64))
	params.Set("timezone", "auto")
	return params
}

func getJSON(ctx context.Context, client httpc.Service, base string, params url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := client.DoRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

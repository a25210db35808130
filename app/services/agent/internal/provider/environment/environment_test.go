package environment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 1, 15, 30, 0, 0, time.UTC)

type meteoServer struct {
	*httptest.Server
	geocodeStatus int
	forecastHits  atomic.Int32
	lastForecast  atomic.Value
}

func newMeteoServer(t *testing.T) *meteoServer {
	t.Helper()
	s := &meteoServer{geocodeStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if s.geocodeStatus != http.StatusOK {
			w.WriteHeader(s.geocodeStatus)
			return
		}
		switch r.URL.Query().Get("name") {
		case "Paris":
			_, _ = w.Write([]byte(`{"results":[{"latitude":48.85,"longitude":2.35}]}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		s.forecastHits.Add(1)
		s.lastForecast.Store(r.URL.Query())
		if r.URL.Query().Get("daily") != "" {
			_, _ = w.Write([]byte(`{"daily":{"temperature_2m_max":[20.4],"temperature_2m_min":[11.2],"precipitation_sum":[4.5],"weather_code":[63]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":17.5,"precipitation":0,"weather_code":2}}`))
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newTestOpenMeteo(s *meteoServer) *OpenMeteo {
	o := NewOpenMeteo(OpenMeteoConf{
		ForecastURL: s.URL + "/v1/forecast",
		GeocodeURL:  s.URL + "/v1/search",
	})
	o.now = func() time.Time { return fixedNow }
	return o
}

func TestOpenMeteoCurrentWeather(t *testing.T) {
	s := newMeteoServer(t)
	w, err := newTestOpenMeteo(s).Weather(context.Background(), "Paris", nil)
	require.NoError(t, err)

	assert.Equal(t, SourceCurrent, w.Source)
	assert.Equal(t, 17.5, w.TemperatureC)
	assert.Equal(t, "Partly cloudy", w.Description)
	assert.Equal(t, "2026-05-01", w.Date)
	assert.False(t, w.Rainy())
}

func TestOpenMeteoDailyForecast(t *testing.T) {
	s := newMeteoServer(t)
	date := fixedNow.AddDate(0, 0, 3)
	w, err := newTestOpenMeteo(s).Weather(context.Background(), "Paris", &date)
	require.NoError(t, err)

	assert.Equal(t, SourceForecast, w.Source)
	assert.Equal(t, 15.8, w.TemperatureC)
	assert.Equal(t, 4.5, w.PrecipitationMM)
	assert.True(t, w.Rainy())

	params := s.lastForecast.Load().(url.Values)
	assert.Equal(t, "2026-05-04", params.Get("start_date"))
}

func TestOpenMeteoClimateEstimateBeyondHorizon(t *testing.T) {
	s := newMeteoServer(t)
	s.geocodeStatus = http.StatusInternalServerError
	date := fixedNow.AddDate(0, 2, 0)

	w, err := newTestOpenMeteo(s).Weather(context.Background(), "Singapore", &date)
	require.NoError(t, err)
	assert.Equal(t, SourceEstimate, w.Source)
	assert.Equal(t, 28.0, w.TemperatureC)
	assert.Equal(t, "Tropical climate (estimated)", w.Description)
	assert.Zero(t, s.forecastHits.Load())
}

func TestOpenMeteoUnknownLocation(t *testing.T) {
	s := newMeteoServer(t)
	_, err := newTestOpenMeteo(s).Weather(context.Background(), "Atlantis", nil)
	assert.ErrorIs(t, err, ErrUnknownLocation)

	_, err = newTestOpenMeteo(s).Weather(context.Background(), " ", nil)
	assert.ErrorIs(t, err, ErrUnknownLocation)
}

func TestTicketmaster(t *testing.T) {
	events, err := NewTicketmaster(TicketmasterConf{}).Events(context.Background(), "Paris", nil)
	require.NoError(t, err)
	assert.Empty(t, events)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		assert.Equal(t, "2026-06-01T00:00:00Z", r.URL.Query().Get("startDateTime"))
		_, _ = w.Write([]byte(`{"_embedded":{"events":[
			{"name":"Jazz Night","url":"https://example.test/e/1",
			 "classifications":[{"segment":{"name":"Music"}}],
			 "dates":{"start":{"localDate":"2026-06-01","localTime":"20:00:00"}},
			 "_embedded":{"venues":[{"name":"Le Duc","city":{"name":"Paris"}}]}}
		]}}`))
	}))
	defer srv.Close()

	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	tm := NewTicketmaster(TicketmasterConf{APIKey: "secret", BaseURL: srv.URL})
	events, err = tm.Events(context.Background(), "Paris", &date)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, Event{
		Title:            "Jazz Night",
		Type:             "music",
		Start:            "2026-06-01 20:00:00",
		Venue:            "Le Duc, Paris",
		URL:              "https://example.test/e/1",
		WeatherSensitive: true,
	}, events[0])
}

func TestStaticTrends(t *testing.T) {
	trends := NewStaticTrends(map[string][]string{"Tokyo": {"Techwear"}})

	got, err := trends.Trends(context.Background(), "tokyo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Techwear"}, got)

	got, err = trends.Trends(context.Background(), "Lima")
	require.NoError(t, err)
	assert.Equal(t, DefaultTrends, got)
}

type countingWeather struct {
	calls atomic.Int32
	fail  bool
}

func (c *countingWeather) Weather(_ context.Context, location string, _ *time.Time) (*Weather, error) {
	c.calls.Add(1)
	if c.fail {
		return nil, errors.New("upstream down")
	}
	return &Weather{Location: location, TemperatureC: 12}, nil
}

func TestCachedProvider(t *testing.T) {
	weather := &countingWeather{}
	cached, err := NewCached(Compose(weather, NewStaticTrends(nil), nil), time.Minute)
	require.NoError(t, err)
	cached.now = func() time.Time { return fixedNow }

	for i := 0; i < 3; i++ {
		w, err := cached.Weather(context.Background(), "Paris", nil)
		require.NoError(t, err)
		assert.Equal(t, 12.0, w.TemperatureC)
	}
	assert.Equal(t, int32(1), weather.calls.Load())

	other := fixedNow.AddDate(0, 0, 2)
	_, err = cached.Weather(context.Background(), "paris", &other)
	require.NoError(t, err)
	assert.Equal(t, int32(2), weather.calls.Load())

	events, err := cached.Events(context.Background(), "Paris", nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCachedProviderDoesNotCacheFailures(t *testing.T) {
	weather := &countingWeather{fail: true}
	cached, err := NewCached(Compose(weather, NewStaticTrends(nil), nil), time.Minute)
	require.NoError(t, err)

	_, err = cached.Weather(context.Background(), "Rome", nil)
	require.Error(t, err)
	_, err = cached.Weather(context.Background(), "Rome", nil)
	require.Error(t, err)
	assert.Equal(t, int32(2), weather.calls.Load())
}

type gatedWeather struct {
	started chan struct{}
	release chan struct{}
	loadErr chan error
}

func (g *gatedWeather) Weather(ctx context.Context, location string, _ *time.Time) (*Weather, error) {
	close(g.started)
	<-g.release
	g.loadErr <- ctx.Err()
	return &Weather{Location: location, TemperatureC: 21}, nil
}

func TestCachedProviderLoadOutlivesImpatientCaller(t *testing.T) {
	weather := &gatedWeather{
		started: make(chan struct{}),
		release: make(chan struct{}),
		loadErr: make(chan error, 1),
	}
	cached, err := NewCached(Compose(weather, NewStaticTrends(nil), nil), time.Minute)
	require.NoError(t, err)

	impatient, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	firstErr := make(chan error, 1)
	go func() {
		_, err := cached.Weather(impatient, "Lisbon", nil)
		firstErr <- err
	}()
	<-weather.started

	type answer struct {
		w   *Weather
		err error
	}
	second := make(chan answer, 1)
	go func() {
		w, err := cached.Weather(context.Background(), "Lisbon", nil)
		second <- answer{w: w, err: err}
	}()

	assert.ErrorIs(t, <-firstErr, context.DeadlineExceeded)
	close(weather.release)

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 21.0, got.w.TemperatureC)
	assert.NoError(t, <-weather.loadErr)
}

package contextagg

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/provider/environment"
	"TripShopper/app/services/agent/internal/provider/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnv struct {
	mu          sync.Mutex
	failWeather map[string]bool
	block       bool
	trendCalls  atomic.Int32
	dates       map[string]*time.Time
}

func (f *fakeEnv) Weather(ctx context.Context, location string, date *time.Time) (*environment.Weather, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	if f.dates == nil {
		f.dates = map[string]*time.Time{}
	}
	f.dates[location] = date
	f.mu.Unlock()
	if f.failWeather[location] {
		return nil, errors.New("weather backend down")
	}
	return &environment.Weather{Location: location, TemperatureC: 18, Description: "Partly cloudy"}, nil
}

func (f *fakeEnv) Trends(context.Context, string) ([]string, error) {
	f.trendCalls.Add(1)
	return []string{"Earth tones"}, nil
}

func (f *fakeEnv) Events(context.Context, string, *time.Time) ([]environment.Event, error) {
	return nil, nil
}

type fakeProfiles struct {
	calls atomic.Int32
	err   error
}

func (f *fakeProfiles) Get(_ context.Context, id string) (*profile.Profile, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &profile.Profile{CustomerID: id, Name: "Mei Chen", FavoriteBrands: []string{"Northwind"}}, nil
}

var builtAt = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestAggregator(p profile.Store, env environment.Provider) *Aggregator {
	return NewAggregator(p, env, WithClock(func() time.Time { return builtAt }))
}

func twoSegmentIntent() intent.Intent {
	return intent.Intent{
		Category: "jackets",
		TripSegments: []intent.TripSegment{
			{Destination: "Paris", StartDate: intent.NewDate(2026, 6, 1), EndDate: intent.NewDate(2026, 6, 5)},
			{Destination: "Tokyo", StartDate: intent.NewDate(2026, 6, 6), EndDate: intent.NewDate(2026, 6, 10)},
		},
	}
}

func TestAggregateSegmentsWithPartialWeatherFailure(t *testing.T) {
	env := &fakeEnv{failWeather: map[string]bool{"Tokyo": true}}
	bundle := newTestAggregator(&fakeProfiles{}, env).Aggregate(context.Background(), "c-1", twoSegmentIntent())

	require.NotNil(t, bundle.Environmental)
	assert.Equal(t, KindSegments, bundle.Environmental.Kind)
	assert.Nil(t, bundle.Environmental.Single)
	require.Len(t, bundle.Environmental.Segments, 2)

	paris, tokyo := bundle.Environmental.Segments[0], bundle.Environmental.Segments[1]
	assert.Equal(t, "Paris", paris.Segment.Destination)
	assert.Equal(t, "Tokyo", tokyo.Segment.Destination)

	assert.Equal(t, StatusOK, paris.WeatherStatus)
	require.NotNil(t, paris.Weather)
	assert.Equal(t, StatusFailed, tokyo.WeatherStatus)
	assert.Nil(t, tokyo.Weather)

	assert.Equal(t, StatusOK, paris.TrendsStatus)
	assert.Equal(t, StatusOK, tokyo.TrendsStatus)
	assert.Equal(t, int32(2), env.trendCalls.Load())

	assert.Equal(t, "2026-06-01", paris.Date)
	require.NotNil(t, env.dates["Tokyo"])
	assert.Equal(t, intent.NewDate(2026, 6, 6).Time, *env.dates["Tokyo"])

	assert.Equal(t, StatusOK, bundle.ProfileStatus)
	assert.Equal(t, "Mei Chen", bundle.Profile.Name)
	assert.Equal(t, builtAt, bundle.BuiltAt)
}

func TestAggregateSingleDestination(t *testing.T) {
	env := &fakeEnv{}
	in := intent.Intent{Category: "shoes", Location: "Rome"}
	bundle := newTestAggregator(nil, env).Aggregate(context.Background(), "", in)

	require.NotNil(t, bundle.Environmental)
	assert.Equal(t, KindSingle, bundle.Environmental.Kind)
	assert.Empty(t, bundle.Environmental.Segments)
	require.NotNil(t, bundle.Environmental.Single)
	assert.Equal(t, "Rome", bundle.Environmental.Single.Location)
	assert.Nil(t, env.dates["Rome"])
	assert.Len(t, bundle.Environmental.Readings(), 1)

	in.TravelDates = &intent.DateRange{Start: intent.NewDate(2026, 7, 3), End: intent.NewDate(2026, 7, 4)}
	bundle = newTestAggregator(nil, env).Aggregate(context.Background(), "", in)
	require.NotNil(t, env.dates["Rome"])
	assert.Equal(t, "2026-07-03", bundle.Environmental.Single.Date)
}

func TestAggregateProfileOnly(t *testing.T) {
	profiles := &fakeProfiles{}
	bundle := newTestAggregator(profiles, &fakeEnv{}).Aggregate(context.Background(), "c-9", intent.Intent{Category: "shoes", Occasion: "wedding"})

	assert.Nil(t, bundle.Environmental)
	assert.Equal(t, StatusOK, bundle.ProfileStatus)
	assert.Equal(t, int32(1), profiles.calls.Load())
}

func TestAggregateSkipsProfileForGuests(t *testing.T) {
	profiles := &fakeProfiles{}
	agg := newTestAggregator(profiles, &fakeEnv{})

	for _, id := range []string{"", "guest-1x9k"} {
		bundle := agg.Aggregate(context.Background(), id, intent.Intent{})
		assert.Equal(t, StatusEmpty, bundle.ProfileStatus)
		assert.Nil(t, bundle.Profile)
	}
	assert.Zero(t, profiles.calls.Load())
}

func TestAggregateDegradesWhenCollaboratorsFail(t *testing.T) {
	bundle := newTestAggregator(&fakeProfiles{err: errors.New("db down")}, nil).
		Aggregate(context.Background(), "c-1", twoSegmentIntent())

	assert.Equal(t, StatusFailed, bundle.ProfileStatus)
	assert.Nil(t, bundle.Profile)
	require.Len(t, bundle.Environmental.Segments, 2)
	for _, seg := range bundle.Environmental.Segments {
		assert.Equal(t, StatusFailed, seg.WeatherStatus)
		assert.Equal(t, StatusFailed, seg.TrendsStatus)
	}

	bundle = newTestAggregator(&fakeProfiles{err: profile.ErrNotFound}, nil).
		Aggregate(context.Background(), "c-404", intent.Intent{})
	assert.Equal(t, StatusEmpty, bundle.ProfileStatus)
}

func TestAggregateBoundsSlowLookups(t *testing.T) {
	agg := NewAggregator(nil, &fakeEnv{block: true}, WithTimeouts(0, 20*time.Millisecond))

	done := make(chan *Bundle, 1)
	go func() {
		done <- agg.Aggregate(context.Background(), "", intent.Intent{Location: "Oslo"})
	}()

	select {
	case bundle := <-done:
		assert.Equal(t, StatusFailed, bundle.Environmental.Single.WeatherStatus)
		assert.Equal(t, StatusOK, bundle.Environmental.Single.TrendsStatus)
	case <-time.After(2 * time.Second):
		t.Fatal("aggregate did not honour the lookup timeout")
	}
}

package contextagg

import (
	"context"
	"errors"
	"strings"
	"time"

	"TripShopper/app/common/consts/biz"
	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/provider/environment"
	"TripShopper/app/services/agent/internal/provider/profile"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

const defaultLookupTimeout = 5 * time.Second

type Aggregator struct {
	profiles       profile.Store
	env            environment.Provider
	profileTimeout time.Duration
	envTimeout     time.Duration
	now            func() time.Time
}

type Option func(*Aggregator)

func WithTimeouts(profileTimeout, envTimeout time.Duration) Option {
	return func(a *Aggregator) {
		if profileTimeout > 0 {
			a.profileTimeout = profileTimeout
		}
		if envTimeout > 0 {
			a.envTimeout = envTimeout
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator accepts nil collaborators; the matching parts of the bundle
// are then reported as failed.
func NewAggregator(profiles profile.Store, env environment.Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		profiles:       profiles,
		env:            env,
		profileTimeout: defaultLookupTimeout,
		envTimeout:     defaultLookupTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate never fails. The profile lookup and every destination lookup run
// concurrently; segment readings keep the order of the trip.
func (a *Aggregator) Aggregate(ctx context.Context, customerID string, in intent.Intent) *Bundle {
	bundle := &Bundle{
		CustomerID:    customerID,
		ProfileStatus: StatusEmpty,
		BuiltAt:       a.now(),
	}

	var fns []func() error
	if isKnownCustomer(customerID) {
		fns = append(fns, func() error {
			bundle.Profile, bundle.ProfileStatus = a.loadProfile(ctx, customerID)
			return nil
		})
	}

	switch dest := in.Destination().(type) {
	case intent.MultiSegment:
		readings := make([]SegmentReading, len(dest.Segments))
		for i, seg := range dest.Segments {
			fns = append(fns, func() error {
				anchor := seg.StartDate.Time
				readings[i] = SegmentReading{Segment: seg, Reading: a.lookup(ctx, seg.Destination, &anchor)}
				return nil
			})
		}
		bundle.Environmental = NewSegments(readings)
	case intent.SingleDestination:
		single := NewSingle(Reading{})
		fns = append(fns, func() error {
			var date *time.Time
			if dest.Dates != nil && !dest.Dates.Start.IsZero() {
				start := dest.Dates.Start.Time
				date = &start
			}
			*single.Single = a.lookup(ctx, dest.Location, date)
			return nil
		})
		bundle.Environmental = single
	}

	if len(fns) > 0 {
		_ = mr.Finish(fns...)
	}
	return bundle
}

func (a *Aggregator) loadProfile(ctx context.Context, customerID string) (*profile.Profile, Status) {
	if a.profiles == nil {
		return nil, StatusFailed
	}
	callCtx, cancel := context.WithTimeout(ctx, a.profileTimeout)
	defer cancel()

	p, err := a.profiles.Get(callCtx, customerID)
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return nil, StatusEmpty
	case err != nil:
		logx.WithContext(ctx).Errorw("profile lookup failed", logx.Field("customer_id", customerID), logx.Field("err", err))
		return nil, StatusFailed
	case p == nil:
		return nil, StatusEmpty
	}
	return p, StatusOK
}

func (a *Aggregator) lookup(ctx context.Context, location string, date *time.Time) Reading {
	r := Reading{
		Location:      location,
		WeatherStatus: StatusFailed,
		TrendsStatus:  StatusFailed,
		EventsStatus:  StatusFailed,
	}
	if date != nil {
		r.Date = date.Format(intent.DateLayout)
	}
	if a.env == nil {
		return r
	}
	log := logx.WithContext(ctx)

	weatherCtx, cancel := context.WithTimeout(ctx, a.envTimeout)
	weather, err := a.env.Weather(weatherCtx, location, date)
	cancel()
	if err != nil {
		log.Errorw("weather lookup failed", logx.Field("location", location), logx.Field("err", err))
	} else {
		r.Weather, r.WeatherStatus = weather, statusOf(weather != nil)
	}

	trendsCtx, cancel := context.WithTimeout(ctx, a.envTimeout)
	trends, err := a.env.Trends(trendsCtx, location)
	cancel()
	if err != nil {
		log.Errorw("trends lookup failed", logx.Field("location", location), logx.Field("err", err))
	} else {
		r.Trends, r.TrendsStatus = trends, statusOf(len(trends) > 0)
	}

	eventsCtx, cancel := context.WithTimeout(ctx, a.envTimeout)
	events, err := a.env.Events(eventsCtx, location, date)
	cancel()
	if err != nil {
		log.Errorw("events lookup failed", logx.Field("location", location), logx.Field("err", err))
	} else {
		r.Events, r.EventsStatus = events, statusOf(len(events) > 0)
	}
	return r
}

func statusOf(present bool) Status {
	if present {
		return StatusOK
	}
	return StatusEmpty
}

func isKnownCustomer(customerID string) bool {
	id := strings.TrimSpace(customerID)
	return id != "" && !strings.HasPrefix(id, biz.GuestPrefix)
}

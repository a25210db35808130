package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"TripShopper/app/common/consts/biz"
	"TripShopper/app/services/agent/internal/agent/clarify"
	"TripShopper/app/services/agent/internal/agent/contextagg"
	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/agent/session"
	"TripShopper/app/services/agent/internal/agent/thinking"
	"TripShopper/app/services/agent/internal/provider/catalog"
	"TripShopper/app/services/agent/internal/provider/profile"

	"github.com/zeromicro/go-zero/core/logx"
)

type State string

const (
	StateAwaitingInput    State = "AWAITING_INPUT"
	StateExtractingIntent State = "EXTRACTING_INTENT"
	StateAssessing        State = "ASSESSING"
	StateClarifying       State = "CLARIFYING"
	StateBuildingContext  State = "BUILDING_CONTEXT"
	StateRecommending     State = "RECOMMENDING"
)

const (
	agentOrchestrator = "orchestrator"
	agentIntent       = "intent_extractor"
	agentClarifier    = "clarifier"
	agentContext      = "context_aggregator"
	agentRecommender  = "product_recommender"
)

const (
	ApologyText         = "I apologize, but I encountered an issue processing your request. Please try again."
	greetingWithName    = "Good day, %s! How may I assist you with your shopping today?"
	greetingAnonymous   = "Good day! How may I assist you with your shopping today?"
	defaultStoreTimeout = 3 * time.Second
)

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMissingSession = errors.New("session id is empty")
)

type Deps struct {
	Sessions    session.Store
	Profiles    profile.Store
	Extractor   IntentExtractor
	Clarifier   Clarifier
	Aggregator  ContextAggregator
	Recommender Recommender
	Locker      Locker
	Archiver    Archiver
	Tracer      TracePublisher

	StoreTimeout time.Duration
	Now          func() time.Time
}

type Orchestrator struct {
	Deps
}

func New(d Deps) (*Orchestrator, error) {
	switch {
	case d.Sessions == nil:
		return nil, errors.New("session store is required")
	case d.Clarifier == nil:
		return nil, errors.New("clarifier is required")
	case d.Aggregator == nil:
		return nil, errors.New("context aggregator is required")
	case d.Recommender == nil:
		return nil, errors.New("recommender is required")
	}
	if d.Locker == nil {
		d.Locker = NewLocalLocker()
	}
	if d.StoreTimeout <= 0 {
		d.StoreTimeout = defaultStoreTimeout
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Orchestrator{Deps: d}, nil
}

type TurnRequest struct {
	SessionID string
	Message   string
}

type TurnResult struct {
	SessionID           string
	Response            string
	Products            []catalog.Product
	Context             *contextagg.Bundle
	UpdatedIntent       intent.Intent
	ClarificationNeeded bool
	Suggestions         []string
	Outcome             Outcome
	Thinking            []thinking.Step
}

// HandleTurn runs one message through extraction, assessment and either
// clarification or context building plus recommendation. Turns of one
// session are serialized; the session is stored once, after the turn.
// Errors are returned only for invalid input or when the session cannot be
// locked.
func (o *Orchestrator) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	message := strings.TrimSpace(req.Message)
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	if message == "" {
		return nil, ErrEmptyMessage
	}

	unlock, err := o.Locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	log := logx.WithContext(ctx)
	trail := thinking.NewTrail(o.Now)
	enter := func(s State, details map[string]any) {
		trail.Add(agentOrchestrator, string(s), details)
	}

	working := o.load(ctx, sessionID).Clone()
	enter(StateAwaitingInput, map[string]any{"turns": len(working.Turns)})

	enter(StateExtractingIntent, nil)
	extraction := o.extract(ctx, message, working)
	trail.Add(agentIntent, "extracted intent delta", map[string]any{
		"fields":  extraction.Delta.Fields(),
		"dropped": extraction.Dropped,
		"failed":  extraction.Failed,
	})
	working.Intent = intent.Merge(working.Intent, extraction.Delta)

	enter(StateAssessing, map[string]any{"intent": working.Intent.Fields()})
	assessment := o.Clarifier.Assess(ctx, working.Intent)
	trail.Add(agentClarifier, "assessed readiness", map[string]any{
		"ready":   assessment.Ready,
		"field":   assessment.Field,
		"missing": clarify.Missing(working.Intent),
	})

	result := &TurnResult{SessionID: sessionID}
	if !assessment.Ready {
		enter(StateClarifying, map[string]any{"field": assessment.Field})
		result.Outcome = OutcomeClarification
		result.ClarificationNeeded = true
		result.Response = assessment.Question
		result.Suggestions = assessment.Suggestions
	} else {
		enter(StateBuildingContext, nil)
		bundle := o.Aggregator.Aggregate(ctx, sessionID, working.Intent)
		trail.Add(agentContext, "built context", contextDetails(bundle))

		enter(StateRecommending, nil)
		rec := o.Recommender.Recommend(ctx, working.Intent, bundle)
		trail.Add(agentRecommender, "ranked products", map[string]any{
			"query":         rec.Query,
			"count":         len(rec.Products),
			"used_fallback": rec.UsedFallback,
			"narrated":      rec.Narrated,
		})

		working.LastContext = bundle
		result.Outcome = OutcomeRecommendation
		result.Context = bundle
		result.Products = rec.Products
		result.Response = rec.Text
	}
	if strings.TrimSpace(result.Response) == "" {
		result.Response = ApologyText
	}

	now := o.Now()
	working.Append(session.RoleUser, message, now)
	working.Append(session.RoleAssistant, result.Response, now)
	o.save(ctx, working)
	enter(StateAwaitingInput, map[string]any{"outcome": result.Outcome})

	result.UpdatedIntent = working.Intent
	result.Thinking = trail.Steps()

	o.afterTurn(ctx, working, result, message, now)
	log.Infow("turn handled",
		logx.Field("session_id", sessionID),
		logx.Field("outcome", result.Outcome),
		logx.Field("products", len(result.Products)),
	)
	return result, nil
}

// Reset clears the conversation of a session and returns the greeting for
// the fresh start. Unknown sessions are created.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", ErrMissingSession
	}
	unlock, err := o.Locker.Lock(ctx, sessionID)
	if err != nil {
		return "", err
	}
	defer unlock()

	s := o.load(ctx, sessionID)
	s.Reset(o.Now())
	o.save(ctx, s)
	return o.Greeting(ctx, sessionID), nil
}

// Greeting is personalized when the session belongs to a known customer. It
// never touches session state.
func (o *Orchestrator) Greeting(ctx context.Context, sessionID string) string {
	if o.Profiles == nil || sessionID == "" || strings.HasPrefix(sessionID, biz.GuestPrefix) {
		return greetingAnonymous
	}
	callCtx, cancel := context.WithTimeout(ctx, o.StoreTimeout)
	defer cancel()

	p, err := o.Profiles.Get(callCtx, sessionID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			logx.WithContext(ctx).Errorw("greeting profile lookup failed", logx.Field("session_id", sessionID), logx.Field("err", err))
		}
		return greetingAnonymous
	}
	if name := p.FirstName(); name != "" {
		return fmt.Sprintf(greetingWithName, name)
	}
	return greetingAnonymous
}

// Conversation returns a snapshot of the session. Unknown sessions come back
// empty and are not stored.
func (o *Orchestrator) Conversation(ctx context.Context, sessionID string) (*session.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	callCtx, cancel := context.WithTimeout(ctx, o.StoreTimeout)
	defer cancel()

	s, err := o.Sessions.Get(callCtx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return session.New(sessionID, o.Now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return s, nil
}

func (o *Orchestrator) extract(ctx context.Context, message string, s *session.Session) intent.Result {
	if o.Extractor == nil {
		return intent.Result{Failed: true}
	}
	return o.Extractor.Extract(ctx, message, s.Intent, s.History())
}

// load falls back to a fresh session when the store misses or fails.
func (o *Orchestrator) load(ctx context.Context, sessionID string) *session.Session {
	callCtx, cancel := context.WithTimeout(ctx, o.StoreTimeout)
	defer cancel()

	s, err := o.Sessions.Get(callCtx, sessionID)
	if err == nil && s != nil {
		return s
	}
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		logx.WithContext(ctx).Errorw("load session failed, starting fresh", logx.Field("session_id", sessionID), logx.Field("err", err))
	}
	return session.New(sessionID, o.Now())
}

func (o *Orchestrator) save(ctx context.Context, s *session.Session) {
	callCtx, cancel := context.WithTimeout(ctx, o.StoreTimeout)
	defer cancel()

	if err := o.Sessions.Put(callCtx, s); err != nil {
		logx.WithContext(ctx).Errorw("save session failed", logx.Field("session_id", s.ID), logx.Field("err", err))
	}
}

// afterTurn hands the finished turn to the archive and trace sinks. Each sink
// gets StoreTimeout; a slow or failing sink is logged and never fails the
// turn.
func (o *Orchestrator) afterTurn(ctx context.Context, s *session.Session, result *TurnResult, message string, at time.Time) {
	log := logx.WithContext(ctx)
	if o.Archiver != nil {
		rec := TurnRecord{
			SessionID:     s.ID,
			TurnIndex:     s.TurnCount - 1,
			UserText:      message,
			AssistantText: result.Response,
			Outcome:       result.Outcome,
			Intent:        s.Intent,
			CreatedAt:     at,
		}
		for _, p := range result.Products {
			rec.ProductIDs = append(rec.ProductIDs, p.ID)
		}
		archiveCtx, cancel := context.WithTimeout(ctx, o.StoreTimeout)
		err := o.Archiver.Archive(archiveCtx, rec)
		cancel()
		if err != nil {
			log.Errorw("archive turn failed", logx.Field("session_id", s.ID), logx.Field("err", err))
		}
	}
	if o.Tracer != nil {
		traceCtx, cancel := context.WithTimeout(ctx, o.StoreTimeout)
		err := o.Tracer.Publish(traceCtx, s.ID, result.Thinking)
		cancel()
		if err != nil {
			log.Errorw("publish thinking trail failed", logx.Field("session_id", s.ID), logx.Field("err", err))
		}
	}
}

func contextDetails(b *contextagg.Bundle) map[string]any {
	details := map[string]any{}
	if b == nil {
		return details
	}
	details["profile"] = b.ProfileStatus
	if b.Environmental != nil {
		details["environment"] = b.Environmental.Kind
		var weather []contextagg.Status
		for _, r := range b.Environmental.Readings() {
			weather = append(weather, r.WeatherStatus)
		}
		details["weather"] = weather
	}
	return details
}

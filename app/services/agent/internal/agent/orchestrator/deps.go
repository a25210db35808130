package orchestrator

import (
	"context"
	"time"

	"TripShopper/app/services/agent/internal/agent/clarify"
	"TripShopper/app/services/agent/internal/agent/contextagg"
	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/agent/recommend"
	"TripShopper/app/services/agent/internal/agent/thinking"
)

type (
	IntentExtractor interface {
		Extract(ctx context.Context, text string, acc intent.Intent, history []intent.HistoryLine) intent.Result
	}

	Clarifier interface {
		Assess(ctx context.Context, in intent.Intent) clarify.Result
	}

	ContextAggregator interface {
		Aggregate(ctx context.Context, customerID string, in intent.Intent) *contextagg.Bundle
	}

	Recommender interface {
		Recommend(ctx context.Context, in intent.Intent, bundle *contextagg.Bundle) recommend.Result
	}

	// Archiver receives every completed turn.
	Archiver interface {
		Archive(ctx context.Context, rec TurnRecord) error
	}

	// TracePublisher receives the thinking trail of every completed turn.
	TracePublisher interface {
		Publish(ctx context.Context, sessionID string, steps []thinking.Step) error
	}
)

type Outcome string

const (
	OutcomeClarification  Outcome = "clarification"
	OutcomeRecommendation Outcome = "recommendation"
)

// TurnRecord is the archived form of one turn.
type TurnRecord struct {
	SessionID     string        `json:"session_id"`
	TurnIndex     int           `json:"turn_index"`
	UserText      string        `json:"user_text"`
	AssistantText string        `json:"assistant_text"`
	Outcome       Outcome       `json:"outcome"`
	Intent        intent.Intent `json:"intent"`
	ProductIDs    []string      `json:"product_ids,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

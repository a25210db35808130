package mq

import (
	"time"

	"TripShopper/app/services/agent/internal/agent/thinking"
)

const (
	TaskArchiveTurn = "assistant:archive_turn"
	ArchiveQueue    = "archive"
)

// TraceMessage is the kafka payload of one turn's thinking trail.
type TraceMessage struct {
	SessionID   string          `json:"session_id"`
	Steps       []thinking.Step `json:"steps"`
	PublishedAt time.Time       `json:"published_at"`
}

package session

import (
	"time"

	"TripShopper/app/services/agent/internal/agent/contextagg"
	"TripShopper/app/services/agent/internal/agent/intent"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the conversation state of one customer or guest.
type Session struct {
	ID          string             `json:"session_id"`
	Turns       []Turn             `json:"turn_history"`
	Intent      intent.Intent      `json:"accumulated_intent"`
	LastContext *contextagg.Bundle `json:"last_context,omitempty"`
	// TurnCount counts user turns over the whole life of the session and
	// survives Reset.
	TurnCount   int                `json:"turn_count"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func New(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Clone copies the session deeply enough that mutating the copy's turns or
// intent never touches the original. LastContext is shared; bundles are
// immutable.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Turns = append([]Turn(nil), s.Turns...)
	cp.Intent = intent.Merge(intent.Intent{}, s.Intent)
	return &cp
}

func (s *Session) Append(role Role, text string, at time.Time) {
	s.Turns = append(s.Turns, Turn{Role: role, Text: text, Timestamp: at})
	if role == RoleUser {
		s.TurnCount++
	}
	s.UpdatedAt = at
}

// Reset clears the conversation but keeps the identity.
func (s *Session) Reset(now time.Time) {
	s.Turns = nil
	s.Intent = intent.Intent{}
	s.LastContext = nil
	s.UpdatedAt = now
}

func (s *Session) History() []intent.HistoryLine {
	out := make([]intent.HistoryLine, 0, len(s.Turns))
	for _, t := range s.Turns {
		out = append(out, intent.HistoryLine{Role: string(t.Role), Text: t.Text})
	}
	return out
}

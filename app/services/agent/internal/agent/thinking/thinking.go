package thinking

import (
	"sync"
	"time"
)

// Step is an audit record of what one agent did during a turn. Steps are
// never used for control flow.
type Step struct {
	Agent     string         `json:"agent"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Trail collects the steps of one turn in order. It is safe for concurrent
// use; the zero value is ready.
type Trail struct {
	mu    sync.Mutex
	steps []Step
	now   func() time.Time
}

func NewTrail(now func() time.Time) *Trail {
	return &Trail{now: now}
}

func (t *Trail) Add(agent, action string, details map[string]any) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	ts := time.Now()
	if t.now != nil {
		ts = t.now()
	}
	t.steps = append(t.steps, Step{
		Agent:     agent,
		Action:    action,
		Details:   details,
		Timestamp: ts,
	})
}

// Steps returns a copy of the recorded steps.
func (t *Trail) Steps() []Step {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Step(nil), t.steps...)
}

func (t *Trail) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}

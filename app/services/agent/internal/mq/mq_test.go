package mq

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"TripShopper/app/dal/conversation"
	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/agent/orchestrator"
	"TripShopper/app/services/agent/internal/agent/thinking"

	"github.com/hibiken/asynq"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type fakeTurns struct {
	conversation.ConversationTurnsModel

	mu   sync.Mutex
	rows []*conversation.ConversationTurns
	err  error
}

func (f *fakeTurns) Insert(_ context.Context, data *conversation.ConversationTurns) (sql.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.rows = append(f.rows, data)
	return nil, nil
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func sampleRecord() orchestrator.TurnRecord {
	return orchestrator.TurnRecord{
		SessionID:     "cust-1",
		TurnIndex:     2,
		UserText:      "warm jackets for Paris",
		AssistantText: "Here are some options I picked for you: Alpine Down Parka.",
		Outcome:       orchestrator.OutcomeRecommendation,
		Intent:        intent.Intent{Category: "jackets", Style: "warm", Location: "Paris"},
		ProductIDs:    []string{"p-1001"},
		CreatedAt:     time.Date(2026, 5, 1, 15, 30, 0, 0, time.UTC),
	}
}

func TestArchiveRoundTripsThroughWorker(t *testing.T) {
	enq := &fakeEnqueuer{}
	require.NoError(t, NewArchiveEnqueuer(enq, "").Archive(context.Background(), sampleRecord()))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TaskArchiveTurn, enq.tasks[0].Type())

	turns := &fakeTurns{}
	handler := newArchiveTurnHandler(turns)
	require.NoError(t, handler(context.Background(), enq.tasks[0]))
	require.Len(t, turns.rows, 1)

	row := turns.rows[0]
	assert.NotZero(t, row.Id)
	assert.Equal(t, "cust-1", row.SessionId)
	assert.EqualValues(t, 2, row.TurnIndex)
	assert.Equal(t, "recommendation", row.Outcome)
	assert.JSONEq(t, `["p-1001"]`, row.ProductIds)

	var stored intent.Intent
	require.NoError(t, json.Unmarshal([]byte(row.Intent), &stored))
	assert.Equal(t, "jackets", stored.Category)
	assert.Equal(t, "Paris", stored.Location)
}

func TestArchiveEnqueueError(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	err := NewArchiveEnqueuer(enq, ArchiveQueue).Archive(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
}

func TestArchiveHandlerSkipsRetryOnBadPayload(t *testing.T) {
	handler := newArchiveTurnHandler(&fakeTurns{})

	err := handler(context.Background(), asynq.NewTask(TaskArchiveTurn, []byte("{not json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	payload, _ := json.Marshal(orchestrator.TurnRecord{UserText: "hi"})
	err = handler(context.Background(), asynq.NewTask(TaskArchiveTurn, payload))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestArchiveHandlerRetriesOnInsertError(t *testing.T) {
	payload, _ := json.Marshal(sampleRecord())
	handler := newArchiveTurnHandler(&fakeTurns{err: errors.New("deadlock")})

	err := handler(context.Background(), asynq.NewTask(TaskArchiveTurn, payload))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestClarificationRecordStoresEmptyProductList(t *testing.T) {
	rec := sampleRecord()
	rec.Outcome = orchestrator.OutcomeClarification
	rec.ProductIDs = nil

	row, err := toTurnRow(rec)
	require.NoError(t, err)
	assert.Equal(t, "[]", row.ProductIds)
	assert.Equal(t, "clarification", row.Outcome)
}

func TestTracePublisher(t *testing.T) {
	w := &fakeWriter{}
	p := NewTracePublisher(w)
	p.now = func() time.Time { return time.Date(2026, 5, 1, 15, 30, 0, 0, time.UTC) }

	steps := []thinking.Step{
		{Agent: "orchestrator", Action: "AWAITING_INPUT", Timestamp: time.Date(2026, 5, 1, 15, 29, 59, 0, time.UTC)},
		{Agent: "intent_extractor", Action: "extracted", Details: map[string]any{"fields": []string{"category"}}},
	}
	require.NoError(t, p.Publish(context.Background(), "cust-1", steps))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "cust-1", string(w.msgs[0].Key))

	var msg TraceMessage
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &msg))
	assert.Equal(t, "cust-1", msg.SessionID)
	assert.Len(t, msg.Steps, 2)
	assert.Equal(t, "intent_extractor", msg.Steps[1].Agent)
}

func TestTracePublisherSkipsEmptyTrail(t *testing.T) {
	w := &fakeWriter{err: errors.New("should not be called")}
	require.NoError(t, NewTracePublisher(w).Publish(context.Background(), "cust-1", nil))
}

func TestTracePublisherReportsWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	err := NewTracePublisher(w).Publish(context.Background(), "cust-1", []thinking.Step{{Agent: "orchestrator"}})
	assert.ErrorContains(t, err, "broker unavailable")
}

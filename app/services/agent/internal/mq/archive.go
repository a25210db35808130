package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"TripShopper/app/common/snowflake"
	"TripShopper/app/dal/conversation"
	"TripShopper/app/services/agent/internal/agent/orchestrator"

	"github.com/hibiken/asynq"
	"github.com/zeromicro/go-zero/core/logx"
)

type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ArchiveEnqueuer hands finished turns to the archive worker.
type ArchiveEnqueuer struct {
	client TaskEnqueuer
	queue  string
}

func NewArchiveEnqueuer(client TaskEnqueuer, queue string) *ArchiveEnqueuer {
	if queue == "" {
		queue = ArchiveQueue
	}
	return &ArchiveEnqueuer{client: client, queue: queue}
}

func (a *ArchiveEnqueuer) Archive(ctx context.Context, rec orchestrator.TurnRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode turn record: %w", err)
	}
	task := asynq.NewTask(TaskArchiveTurn, payload)
	if _, err := a.client.EnqueueContext(ctx, task, asynq.Queue(a.queue), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue archive task: %w", err)
	}
	return nil
}

func NewAsynqMux(turns conversation.ConversationTurnsModel) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskArchiveTurn, newArchiveTurnHandler(turns))
	return mux
}

func newArchiveTurnHandler(turns conversation.ConversationTurnsModel) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var rec orchestrator.TurnRecord
		if err := json.Unmarshal(t.Payload(), &rec); err != nil {
			logx.WithContext(ctx).Errorw("decode archive task failed", logx.Field("err", err))
			return fmt.Errorf("decode archive task: %v: %w", err, asynq.SkipRetry)
		}

		row, err := toTurnRow(rec)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if _, err := turns.Insert(ctx, row); err != nil {
			logx.WithContext(ctx).Errorw("insert conversation turn failed",
				logx.Field("session_id", rec.SessionID),
				logx.Field("turn_index", rec.TurnIndex),
				logx.Field("err", err),
			)
			return err
		}
		return nil
	}
}

func toTurnRow(rec orchestrator.TurnRecord) (*conversation.ConversationTurns, error) {
	if strings.TrimSpace(rec.SessionID) == "" {
		return nil, fmt.Errorf("turn record without session id")
	}
	intentJSON, err := json.Marshal(rec.Intent)
	if err != nil {
		return nil, fmt.Errorf("encode intent: %w", err)
	}
	productIDs := rec.ProductIDs
	if productIDs == nil {
		productIDs = []string{}
	}
	idsJSON, err := json.Marshal(productIDs)
	if err != nil {
		return nil, fmt.Errorf("encode product ids: %w", err)
	}
	return &conversation.ConversationTurns{
		Id:            snowflake.Next(),
		SessionId:     rec.SessionID,
		TurnIndex:     int64(rec.TurnIndex),
		UserText:      rec.UserText,
		AssistantText: rec.AssistantText,
		Outcome:       string(rec.Outcome),
		Intent:        string(intentJSON),
		ProductIds:    string(idsJSON),
		CreatedAt:     rec.CreatedAt,
	}, nil
}

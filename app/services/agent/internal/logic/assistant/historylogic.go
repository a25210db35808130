// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package assistant

import (
	"context"
	"strings"

	"TripShopper/app/common/consts/errno"
	"TripShopper/app/services/agent/internal/logic/helper"
	"TripShopper/app/services/agent/internal/svc"
	"TripShopper/app/services/agent/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/x/errors"
)

const maxHistoryLimit = 200

type HistoryLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHistoryLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HistoryLogic {
	return &HistoryLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// History reads the archived turns of a session. Turns still waiting in the
// archive queue are not listed yet.
func (l *HistoryLogic) History(req *types.HistoryRequest) (resp *types.HistoryResponse, err error) {
	sessionID := strings.TrimSpace(req.SessionId)
	if sessionID == "" {
		return nil, errors.New(errno.MissingSession, "session_id is required")
	}
	if l.svcCtx.Turns == nil {
		return nil, errors.New(errno.AssistantUnavailable, "conversation archive is not enabled")
	}

	limit := req.Limit
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	rows, err := l.svcCtx.Turns.FindBySessionId(l.ctx, sessionID, limit)
	if err != nil {
		l.Logger.Errorw("logic: load archived turns failed", logx.Field("session_id", sessionID), logx.Field("err", err))
		return nil, errors.New(errno.InternalError, "load history failed")
	}
	return &types.HistoryResponse{
		SessionId: sessionID,
		Turns:     helper.ToArchivedTurns(rows),
	}, nil
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package assistant

import (
	"context"

	"TripShopper/app/services/agent/internal/agent/orchestrator"
	"TripShopper/app/services/agent/internal/logic/helper"
	"TripShopper/app/services/agent/internal/svc"
	"TripShopper/app/services/agent/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ChatLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatLogic {
	return &ChatLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ChatLogic) Chat(req *types.ChatRequest) (resp *types.ChatResponse, err error) {
	res, err := l.svcCtx.Orchestrator.HandleTurn(l.ctx, orchestrator.TurnRequest{
		SessionID: req.SessionId,
		Message:   req.Message,
	})
	if err != nil {
		l.Logger.Errorw("logic: chat failed", logx.Field("session_id", req.SessionId), logx.Field("err", err))
		return nil, helper.ToCodeError(err)
	}
	return helper.ToChatResponse(res), nil
}

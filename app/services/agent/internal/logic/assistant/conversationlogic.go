// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package assistant

import (
	"context"

	"TripShopper/app/services/agent/internal/logic/helper"
	"TripShopper/app/services/agent/internal/svc"
	"TripShopper/app/services/agent/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ConversationLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewConversationLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ConversationLogic {
	return &ConversationLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ConversationLogic) Conversation(req *types.ConversationRequest) (resp *types.ConversationResponse, err error) {
	s, err := l.svcCtx.Orchestrator.Conversation(l.ctx, req.SessionId)
	if err != nil {
		l.Logger.Errorw("logic: load conversation failed", logx.Field("session_id", req.SessionId), logx.Field("err", err))
		return nil, helper.ToCodeError(err)
	}
	return helper.ToConversation(s), nil
}

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

type ResetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewResetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ResetLogic {
	return &ResetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ResetLogic) Reset(req *types.ResetRequest) (resp *types.GreetingResponse, err error) {
	greeting, err := l.svcCtx.Orchestrator.Reset(l.ctx, req.SessionId)
	if err != nil {
		l.Logger.Errorw("logic: reset failed", logx.Field("session_id", req.SessionId), logx.Field("err", err))
		return nil, helper.ToCodeError(err)
	}
	return &types.GreetingResponse{SessionId: req.SessionId, Greeting: greeting}, nil
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package assistant

import (
	"context"
	"strings"

	"TripShopper/app/common/snowflake"
	"TripShopper/app/services/agent/internal/svc"
	"TripShopper/app/services/agent/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GreetingLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGreetingLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GreetingLogic {
	return &GreetingLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Greeting hands anonymous visitors a fresh guest session id.
func (l *GreetingLogic) Greeting(req *types.GreetingRequest) (resp *types.GreetingResponse, err error) {
	sessionID := strings.TrimSpace(req.SessionId)
	if sessionID == "" {
		sessionID = snowflake.GuestSessionID()
	}
	return &types.GreetingResponse{
		SessionId: sessionID,
		Greeting:  l.svcCtx.Orchestrator.Greeting(l.ctx, sessionID),
	}, nil
}

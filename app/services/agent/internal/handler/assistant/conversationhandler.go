// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package assistant

import (
	"net/http"

	logic "TripShopper/app/services/agent/internal/logic/assistant"
	"TripShopper/app/services/agent/internal/svc"
	"TripShopper/app/services/agent/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func ConversationHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ConversationRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewConversationLogic(r.Context(), svcCtx)
		resp, err := l.Conversation(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

package conversation

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ ConversationTurnsModel = (*customConversationTurnsModel)(nil)

type (
	// ConversationTurnsModel is an interface to be customized, add more methods here,
	// and implement the added methods in customConversationTurnsModel.
	ConversationTurnsModel interface {
		conversationTurnsModel
		FindBySessionId(ctx context.Context, sessionId string, limit int) ([]*ConversationTurns, error)
	}

	customConversationTurnsModel struct {
		*defaultConversationTurnsModel
	}
)

// NewConversationTurnsModel returns a model for the database table.
func NewConversationTurnsModel(conn sqlx.SqlConn) ConversationTurnsModel {
	return &customConversationTurnsModel{
		defaultConversationTurnsModel: newConversationTurnsModel(conn),
	}
}

func (m *customConversationTurnsModel) FindBySessionId(ctx context.Context, sessionId string, limit int) ([]*ConversationTurns, error) {
	if limit <= 0 {
		limit = 50
	}
	var resp []*ConversationTurns
	query := fmt.Sprintf("select %s from %s where `session_id` = ? order by `turn_index` asc limit ?", conversationTurnsRows, m.table)
	if err := m.conn.QueryRowsCtx(ctx, &resp, query, sessionId, limit); err != nil {
		return nil, err
	}
	return resp, nil
}

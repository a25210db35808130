package customer

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ PurchaseHistoryModel = (*customPurchaseHistoryModel)(nil)

type (
	// PurchaseHistoryModel is an interface to be customized, add more methods here,
	// and implement the added methods in customPurchaseHistoryModel.
	PurchaseHistoryModel interface {
		purchaseHistoryModel
		FindRecentByCustomerId(ctx context.Context, customerId string, limit int) ([]*PurchaseHistory, error)
	}

	customPurchaseHistoryModel struct {
		*defaultPurchaseHistoryModel
	}
)

// NewPurchaseHistoryModel returns a model for the database table.
func NewPurchaseHistoryModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) PurchaseHistoryModel {
	return &customPurchaseHistoryModel{
		defaultPurchaseHistoryModel: newPurchaseHistoryModel(conn, c, opts...),
	}
}

func (m *customPurchaseHistoryModel) FindRecentByCustomerId(ctx context.Context, customerId string, limit int) ([]*PurchaseHistory, error) {
	if limit <= 0 {
		limit = 10
	}
	var resp []*PurchaseHistory
	query := fmt.Sprintf("select %s from %s where `customer_id` = ? order by `purchased_at` desc limit ?", purchaseHistoryRows, m.table)
	if err := m.QueryRowsNoCacheCtx(ctx, &resp, query, customerId, limit); err != nil {
		return nil, err
	}
	return resp, nil
}

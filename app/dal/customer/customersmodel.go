package customer

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ CustomersModel = (*customCustomersModel)(nil)

type (
	// CustomersModel is an interface to be customized, add more methods here,
	// and implement the added methods in customCustomersModel.
	CustomersModel interface {
		customersModel
		FindAllCustomerIds(ctx context.Context) ([]string, error)
	}

	customCustomersModel struct {
		*defaultCustomersModel
	}
)

// NewCustomersModel returns a model for the database table.
func NewCustomersModel(conn sqlx.SqlConn, c cache.CacheConf, opts ...cache.Option) CustomersModel {
	return &customCustomersModel{
		defaultCustomersModel: newCustomersModel(conn, c, opts...),
	}
}

func (m *customCustomersModel) FindAllCustomerIds(ctx context.Context) ([]string, error) {
	var ids []string
	query := fmt.Sprintf("select `customer_id` from %s", m.table)
	if err := m.QueryRowsNoCacheCtx(ctx, &ids, query); err != nil {
		return nil, err
	}
	return ids, nil
}

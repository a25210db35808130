package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"TripShopper/app/dal/customer"

	"github.com/zeromicro/go-zero/core/bloom"
	"github.com/zeromicro/go-zero/core/logx"
)

const recentPurchaseLimit = 10

// MysqlStore reads profiles from the customers and purchase_history tables.
// When a bloom filter is configured and has been preheated, ids it has never
// seen skip the database. Customers found in the database are added to it.
type MysqlStore struct {
	customers customer.CustomersModel
	purchases customer.PurchaseHistoryModel
	filter    *bloom.Filter
	preheated atomic.Bool
}

func NewMysqlStore(customers customer.CustomersModel, purchases customer.PurchaseHistoryModel, filter *bloom.Filter) *MysqlStore {
	return &MysqlStore{
		customers: customers,
		purchases: purchases,
		filter:    filter,
	}
}

func (s *MysqlStore) Get(ctx context.Context, customerID string) (*Profile, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrNotFound
	}

	if s.filter != nil {
		exists, err := s.filter.ExistsCtx(ctx, []byte(customerID))
		if err != nil {
			logx.WithContext(ctx).Errorw("customer bloom check failed", logx.Field("customer_id", customerID), logx.Field("err", err))
		} else if !exists && s.preheated.Load() {
			return nil, ErrNotFound
		}
	}

	row, err := s.customers.FindOneByCustomerId(ctx, customerID)
	if errors.Is(err, customer.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %s: %w", customerID, err)
	}
	if s.filter != nil {
		if err := s.filter.AddCtx(ctx, []byte(customerID)); err != nil {
			logx.WithContext(ctx).Errorw("add customer to bloom failed", logx.Field("customer_id", customerID), logx.Field("err", err))
		}
	}

	p := fromCustomerRow(ctx, row)

	if s.purchases != nil {
		purchases, err := s.purchases.FindRecentByCustomerId(ctx, customerID, recentPurchaseLimit)
		if err != nil {
			logx.WithContext(ctx).Errorw("load purchase history failed", logx.Field("customer_id", customerID), logx.Field("err", err))
		}
		for _, item := range purchases {
			p.RecentPurchases = append(p.RecentPurchases, Purchase{
				ProductID:   item.ProductId,
				Name:        item.ProductName,
				Category:    item.Category,
				Brand:       item.Brand,
				Price:       item.Price,
				PurchasedAt: item.PurchasedAt,
			})
		}
	}
	return p, nil
}

// Preheat loads every known customer id into the bloom filter. Bloom misses
// are trusted only after the first successful run.
func (s *MysqlStore) Preheat(ctx context.Context) error {
	if s.filter == nil {
		return nil
	}
	ids, err := s.customers.FindAllCustomerIds(ctx)
	if err != nil {
		return fmt.Errorf("load customer ids: %w", err)
	}
	for _, id := range ids {
		if err := s.filter.AddCtx(ctx, []byte(id)); err != nil {
			return fmt.Errorf("add customer %s to bloom: %w", id, err)
		}
	}
	s.preheated.Store(true)
	return nil
}

func fromCustomerRow(ctx context.Context, row *customer.Customers) *Profile {
	p := &Profile{
		CustomerID: row.CustomerId,
		Name:       row.Name,
		Age:        int(row.Age),
		Location:   nullString(row.Location),
		Tier:       row.Tier,
	}
	decodeColumn(ctx, "size_info", row.SizeInfo, &p.Sizes)
	decodeColumn(ctx, "preferences", row.Preferences, &p.Preferences)
	decodeColumn(ctx, "favorite_brands", row.FavoriteBrands, &p.FavoriteBrands)
	return p
}

func decodeColumn(ctx context.Context, column string, v sql.NullString, dst any) {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return
	}
	if err := json.Unmarshal([]byte(v.String), dst); err != nil {
		logx.WithContext(ctx).Errorw("decode customer column failed", logx.Field("column", column), logx.Field("err", err))
	}
}

func nullString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

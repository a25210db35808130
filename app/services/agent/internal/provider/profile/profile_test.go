package profile

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"TripShopper/app/dal/customer"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/bloom"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

type fakeCustomers struct {
	customer.CustomersModel
	rows    map[string]*customer.Customers
	err     error
	lookups int
}

func (f *fakeCustomers) FindOneByCustomerId(_ context.Context, id string) (*customer.Customers, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return row, nil
}

func (f *fakeCustomers) FindAllCustomerIds(context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.rows))
	for id := range f.rows {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakePurchases struct {
	customer.PurchaseHistoryModel
	rows []*customer.PurchaseHistory
	err  error
}

func (f *fakePurchases) FindRecentByCustomerId(_ context.Context, _ string, limit int) ([]*customer.PurchaseHistory, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.rows) > limit {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func TestMysqlStoreDecodesProfile(t *testing.T) {
	bought := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	store := NewMysqlStore(&fakeCustomers{rows: map[string]*customer.Customers{
		"c-42": {
			CustomerId:     "c-42",
			Name:           "Ada Lovelace",
			Age:            36,
			Location:       sql.NullString{String: "London", Valid: true},
			Tier:           "gold",
			SizeInfo:       sql.NullString{String: `{"shoes":"39","tops":"M"}`, Valid: true},
			Preferences:    sql.NullString{String: `{"styles":["classic"],"colors":["navy"]}`, Valid: true},
			FavoriteBrands: sql.NullString{String: `["Northwind"]`, Valid: true},
		},
	}}, &fakePurchases{rows: []*customer.PurchaseHistory{
		{ProductId: "p-1", ProductName: "Wool Coat", Brand: "Northwind", Price: 210, PurchasedAt: bought},
	}}, nil)

	p, err := store.Get(context.Background(), "c-42")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.FirstName())
	assert.Equal(t, "London", p.Location)
	assert.Equal(t, "M", p.Sizes["tops"])
	assert.Equal(t, []string{"classic"}, p.Preferences.Styles)
	assert.Equal(t, []string{"Northwind"}, p.FavoriteBrands)
	require.Len(t, p.RecentPurchases, 1)
	assert.Equal(t, "Wool Coat", p.RecentPurchases[0].Name)
}

func TestMysqlStoreNotFoundAndFailures(t *testing.T) {
	store := NewMysqlStore(&fakeCustomers{rows: map[string]*customer.Customers{}}, nil, nil)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)

	broken := NewMysqlStore(&fakeCustomers{err: errors.New("connection refused")}, nil, nil)
	_, err = broken.Get(context.Background(), "c-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMysqlStoreToleratesPurchaseHistoryFailure(t *testing.T) {
	store := NewMysqlStore(&fakeCustomers{rows: map[string]*customer.Customers{
		"c-1": {CustomerId: "c-1", Name: "Grace", Preferences: sql.NullString{String: "not json", Valid: true}},
	}}, &fakePurchases{err: errors.New("timeout")}, nil)

	p, err := store.Get(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Grace", p.FirstName())
	assert.Empty(t, p.RecentPurchases)
}

func newBloom(t *testing.T) *bloom.Filter {
	t.Helper()
	mr := miniredis.RunT(t)
	return bloom.New(redis.New(mr.Addr()), "test:bloom:customer", 1<<16)
}

func TestMysqlStoreBloomBeforeAndAfterPreheat(t *testing.T) {
	ctx := context.Background()
	customers := &fakeCustomers{rows: map[string]*customer.Customers{
		"c-1": {CustomerId: "c-1", Name: "Grace Hopper"},
		"c-2": {CustomerId: "c-2", Name: "Alan Turing"},
	}}
	filter := newBloom(t)
	store := NewMysqlStore(customers, nil, filter)

	p, err := store.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Grace", p.FirstName())
	assert.Equal(t, 1, customers.lookups)
	exists, err := filter.ExistsCtx(ctx, []byte("c-1"))
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, customers.lookups)

	require.NoError(t, store.Preheat(ctx))

	p, err = store.Get(ctx, "c-2")
	require.NoError(t, err)
	assert.Equal(t, "Alan", p.FirstName())
	assert.Equal(t, 3, customers.lookups)

	_, err = store.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, customers.lookups)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(&Profile{CustomerID: "c-7", Name: "Lin"})
	p, err := store.Get(context.Background(), "c-7")
	require.NoError(t, err)
	p.Name = "changed"

	again, err := store.Get(context.Background(), "c-7")
	require.NoError(t, err)
	assert.Equal(t, "Lin", again.Name)

	_, err = store.Get(context.Background(), "c-8")
	assert.ErrorIs(t, err, ErrNotFound)
}

package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
	"github.com/aminejameli/dropservices-manager/internal/entity"
	"github.com/aminejameli/dropservices-manager/internal/watch"
)

type fakeRepo struct {
	mu       sync.Mutex
	hub      *watch.Hub
	orders   []entity.Order
	services []entity.Service
	clients  []entity.Client
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{hub: watch.NewHub()}
}

func (f *fakeRepo) setOrders(orders []entity.Order) {
	f.mu.Lock()
	f.orders = orders
	f.mu.Unlock()
	f.hub.Publish(watch.Orders)
}

func (f *fakeRepo) ListOrders(ctx context.Context) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders, nil
}

func (f *fakeRepo) ListServices(ctx context.Context) ([]entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.services, nil
}

func (f *fakeRepo) ListClients(ctx context.Context) ([]entity.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clients, nil
}

func (f *fakeRepo) AddOrder(context.Context, *entity.OrderInsert) (string, error) { return "", nil }
func (f *fakeRepo) UpdateOrder(context.Context, string, *entity.OrderInsert) error {
	return nil
}
func (f *fakeRepo) DeleteOrderById(context.Context, string) error { return nil }
func (f *fakeRepo) ExpireOverdueOrders(context.Context, time.Time) (int, error) {
	return 0, nil
}
func (f *fakeRepo) AddService(context.Context, *entity.ServiceInsert) (string, error) {
	return "", nil
}
func (f *fakeRepo) UpdateService(context.Context, string, *entity.ServiceInsert) error {
	return nil
}
func (f *fakeRepo) DeleteServiceById(context.Context, string) error { return nil }
func (f *fakeRepo) AddClient(context.Context, *entity.ClientInsert) (string, error) {
	return "", nil
}
func (f *fakeRepo) UpdateClient(context.Context, string, *entity.ClientInsert) error {
	return nil
}
func (f *fakeRepo) DeleteClientById(context.Context, string) error { return nil }

func (f *fakeRepo) Services() dependency.Services             { return f }
func (f *fakeRepo) Orders() dependency.Orders                 { return f }
func (f *fakeRepo) Clients() dependency.Clients               { return f }
func (f *fakeRepo) PaymentMethods() dependency.PaymentMethods { return nil }
func (f *fakeRepo) Admin() dependency.Admin                   { return nil }
func (f *fakeRepo) Mail() dependency.Mail                     { return nil }
func (f *fakeRepo) Changes() *watch.Hub                       { return f.hub }
func (f *fakeRepo) DB() dependency.DB                         { return nil }
func (f *fakeRepo) Close()                                    {}
func (f *fakeRepo) Tx(ctx context.Context, fn func(context.Context, dependency.Repository) error) error {
	return fn(ctx, f)
}

func order(start time.Time, price int64) entity.Order {
	return entity.Order{
		StartDate: start,
		Price:     decimal.NewFromInt(price),
		Status:    entity.OrderStatusActive,
	}
}

func TestStartComputesInitialView(t *testing.T) {
	rep := newFakeRepo()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rep.orders = []entity.Order{order(now.AddDate(0, 0, -3), 100)}

	m := New(rep)
	m.now = func() time.Time { return now }
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	v := m.View()
	require.NotNil(t, v)
	assert.True(t, v.Summary.TotalRevenue.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, entity.GranularityMonth, v.Granularity)
}

func TestChangeTriggersRecompute(t *testing.T) {
	rep := newFakeRepo()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	m := New(rep)
	m.now = func() time.Time { return now }
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	ch, cancel := m.Watch()
	defer cancel()

	rep.setOrders([]entity.Order{order(now.AddDate(0, 0, -1), 250)})

	select {
	case v := <-ch:
		assert.True(t, v.Summary.TotalRevenue.Equal(decimal.NewFromInt(250)))
	case <-time.After(2 * time.Second):
		t.Fatal("no recomputed view received")
	}
}

func TestWatcherKeepsOnlyFreshestView(t *testing.T) {
	rep := newFakeRepo()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	m := New(rep)
	m.now = func() time.Time { return now }
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	ch, cancel := m.Watch()
	defer cancel()

	// Bypass the loop and broadcast two versions without the consumer reading.
	rep.orders = []entity.Order{order(now, 10)}
	require.NoError(t, m.reload(context.Background(), watch.Orders))
	m.recompute()
	m.broadcast()

	rep.orders = []entity.Order{order(now, 20)}
	require.NoError(t, m.reload(context.Background(), watch.Orders))
	m.recompute()
	m.broadcast()

	v := <-ch
	assert.True(t, v.Summary.TotalRevenue.Equal(decimal.NewFromInt(20)))
}

func TestViewWithGranularity(t *testing.T) {
	rep := newFakeRepo()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rep.orders = []entity.Order{order(now.AddDate(0, 0, -2), 40)}

	m := New(rep)
	m.now = func() time.Time { return now }
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	assert.Same(t, m.View(), m.ViewWithGranularity(entity.GranularityMonth))

	day := m.ViewWithGranularity(entity.GranularityDay)
	require.NotNil(t, day)
	assert.Equal(t, entity.GranularityDay, day.Granularity)
}

func TestWatchCancelIsIdempotent(t *testing.T) {
	rep := newFakeRepo()
	m := New(rep)
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	_, cancel := m.Watch()
	cancel()
	cancel()
}

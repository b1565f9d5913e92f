package expiry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
	"github.com/aminejameli/dropservices-manager/internal/entity"
	"github.com/aminejameli/dropservices-manager/internal/watch"
)

type fakeOrders struct {
	orders  []entity.Order
	expired int
}

func (f *fakeOrders) ListOrders(context.Context) ([]entity.Order, error) { return f.orders, nil }
func (f *fakeOrders) AddOrder(context.Context, *entity.OrderInsert) (string, error) {
	return "", nil
}
func (f *fakeOrders) UpdateOrder(context.Context, string, *entity.OrderInsert) error { return nil }
func (f *fakeOrders) DeleteOrderById(context.Context, string) error                  { return nil }
func (f *fakeOrders) ExpireOverdueOrders(_ context.Context, today time.Time) (int, error) {
	n := 0
	for i, o := range f.orders {
		if o.Status == entity.OrderStatusActive && o.EndDate != nil && !o.EndDate.After(today) {
			f.orders[i].Status = entity.OrderStatusExpired
			n++
		}
	}
	f.expired += n
	return n, nil
}

type fakeRepo struct {
	orders *fakeOrders
}

func (f *fakeRepo) Orders() dependency.Orders                 { return f.orders }
func (f *fakeRepo) Services() dependency.Services             { return nil }
func (f *fakeRepo) Clients() dependency.Clients               { return nil }
func (f *fakeRepo) PaymentMethods() dependency.PaymentMethods { return nil }
func (f *fakeRepo) Admin() dependency.Admin                   { return nil }
func (f *fakeRepo) Mail() dependency.Mail                     { return nil }
func (f *fakeRepo) Changes() *watch.Hub                       { return nil }
func (f *fakeRepo) DB() dependency.DB                         { return nil }
func (f *fakeRepo) Close()                                    {}
func (f *fakeRepo) Tx(ctx context.Context, fn func(context.Context, dependency.Repository) error) error {
	return fn(ctx, f)
}

type fakeMailer struct {
	digests []*entity.ExpiryWorklist
}

func (f *fakeMailer) SendExpiryDigest(_ context.Context, to string, wl *entity.ExpiryWorklist) (*entity.SendEmailRequest, error) {
	f.digests = append(f.digests, wl)
	return &entity.SendEmailRequest{To: to, Sent: true}, nil
}
func (f *fakeMailer) Start(context.Context) error { return nil }
func (f *fakeMailer) Stop() error                 { return nil }

func TestTickExpiresAndMails(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	soon := time.Now().AddDate(0, 0, 3)

	orders := &fakeOrders{orders: []entity.Order{
		{ID: "o1", Status: entity.OrderStatusActive, EndDate: &yesterday, StartDate: time.Now().AddDate(0, -1, 0)},
		{ID: "o2", Status: entity.OrderStatusActive, EndDate: &soon, StartDate: time.Now()},
	}}
	mailer := &fakeMailer{}
	w := New(&Config{AdminEmail: "admin@dropservices.tn"}, &fakeRepo{orders: orders}, mailer)

	require.NoError(t, w.tick(context.Background()))

	assert.Equal(t, 1, orders.expired)
	require.Len(t, mailer.digests, 1)
	assert.Equal(t, 2, mailer.digests[0].Total)
	assert.Equal(t, 1, mailer.digests[0].Expired)
}

func TestDigestIsRateLimited(t *testing.T) {
	soon := time.Now().AddDate(0, 0, 2)
	orders := &fakeOrders{orders: []entity.Order{
		{ID: "o1", Status: entity.OrderStatusActive, EndDate: &soon, StartDate: time.Now()},
	}}
	mailer := &fakeMailer{}
	w := New(&Config{AdminEmail: "admin@dropservices.tn"}, &fakeRepo{orders: orders}, mailer)

	require.NoError(t, w.tick(context.Background()))
	require.NoError(t, w.tick(context.Background()))

	assert.Len(t, mailer.digests, 1, "second digest suppressed inside the interval")
}

func TestNoDigestWithoutMatches(t *testing.T) {
	far := time.Now().AddDate(0, 2, 0)
	orders := &fakeOrders{orders: []entity.Order{
		{ID: "o1", Status: entity.OrderStatusActive, EndDate: &far, StartDate: time.Now()},
	}}
	mailer := &fakeMailer{}
	w := New(&Config{AdminEmail: "admin@dropservices.tn"}, &fakeRepo{orders: orders}, mailer)

	require.NoError(t, w.tick(context.Background()))
	assert.Empty(t, mailer.digests)
}

func TestStartStop(t *testing.T) {
	w := New(nil, &fakeRepo{orders: &fakeOrders{}}, nil)
	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	assert.Error(t, w.Stop())
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aminejameli/dropservices-manager/internal/entity"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
)

type orderFixture struct {
	serviceID       string
	expiringID      string
	clientID        string
	paymentMethodID string
}

func newOrderFixture(t *testing.T, db *MYSQLStore) orderFixture {
	ctx := context.Background()

	serviceID, err := db.AddService(ctx, &entity.ServiceInsert{
		Name:   "Canva Pro",
		Status: entity.ServiceStatusActive,
	})
	require.NoError(t, err)

	expiringID, err := db.AddService(ctx, &entity.ServiceInsert{
		Name:          "Netflix Premium",
		Status:        entity.ServiceStatusActive,
		HasExpiration: true,
	})
	require.NoError(t, err)

	clientID, err := db.AddClient(ctx, &entity.ClientInsert{ClientName: "Sami"})
	require.NoError(t, err)

	pmID, err := db.AddPaymentMethod(ctx, &entity.PaymentMethodInsert{Name: "D17"})
	require.NoError(t, err)

	return orderFixture{
		serviceID:       serviceID,
		expiringID:      expiringID,
		clientID:        clientID,
		paymentMethodID: pmID,
	}
}

func TestAddOrderMaintainsClientCounters(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()
	fx := newOrderFixture(t, db)

	_, err := db.AddOrder(ctx, &entity.OrderInsert{
		ClientID:        fx.clientID,
		ServiceID:       fx.serviceID,
		PaymentMethodID: fx.paymentMethodID,
		StartDate:       time.Now(),
		Price:           decimal.NewFromInt(30),
		Cost:            decimal.NewFromInt(18),
		Status:          entity.OrderStatusActive,
	})
	assert.NoError(t, err)

	clients, err := db.ListClients(ctx)
	assert.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, 1, clients[0].TotalOrders)
	assert.True(t, clients[0].TotalSpent.Equal(decimal.NewFromInt(30)))

	orders, err := db.ListOrders(ctx)
	assert.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Canva Pro", orders[0].ServiceName)
	assert.Equal(t, "Sami", orders[0].ClientName)
	assert.Equal(t, "D17", orders[0].PaymentMethod)
}

func TestDeleteOrderReleasesClientCounters(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()
	fx := newOrderFixture(t, db)

	id, err := db.AddOrder(ctx, &entity.OrderInsert{
		ClientID:        fx.clientID,
		ServiceID:       fx.serviceID,
		PaymentMethodID: fx.paymentMethodID,
		StartDate:       time.Now(),
		Price:           decimal.NewFromInt(45),
		Status:          entity.OrderStatusActive,
	})
	require.NoError(t, err)

	assert.NoError(t, db.DeleteOrderById(ctx, id))

	clients, err := db.ListClients(ctx)
	assert.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, 0, clients[0].TotalOrders)
	assert.True(t, clients[0].TotalSpent.IsZero())

	assert.ErrorIs(t, db.DeleteOrderById(ctx, id), gerr.ErrNotFound)
}

func TestUpdateOrderMovesCountersBetweenClients(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()
	fx := newOrderFixture(t, db)

	otherID, err := db.AddClient(ctx, &entity.ClientInsert{ClientName: "Yassine"})
	require.NoError(t, err)

	id, err := db.AddOrder(ctx, &entity.OrderInsert{
		ClientID:        fx.clientID,
		ServiceID:       fx.serviceID,
		PaymentMethodID: fx.paymentMethodID,
		StartDate:       time.Now(),
		Price:           decimal.NewFromInt(20),
		Status:          entity.OrderStatusActive,
	})
	require.NoError(t, err)

	err = db.UpdateOrder(ctx, id, &entity.OrderInsert{
		ClientID:        otherID,
		ServiceID:       fx.serviceID,
		PaymentMethodID: fx.paymentMethodID,
		StartDate:       time.Now(),
		Price:           decimal.NewFromInt(25),
		Status:          entity.OrderStatusActive,
	})
	assert.NoError(t, err)

	clients, err := db.ListClients(ctx)
	assert.NoError(t, err)
	require.Len(t, clients, 2)
	byName := map[string]entity.Client{}
	for _, c := range clients {
		byName[c.ClientName] = c
	}
	assert.Equal(t, 0, byName["Sami"].TotalOrders)
	assert.True(t, byName["Sami"].TotalSpent.IsZero())
	assert.Equal(t, 1, byName["Yassine"].TotalOrders)
	assert.True(t, byName["Yassine"].TotalSpent.Equal(decimal.NewFromInt(25)))
}

func TestAddOrderValidation(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()
	fx := newOrderFixture(t, db)

	_, err := db.AddOrder(ctx, &entity.OrderInsert{
		ClientID:        fx.clientID,
		ServiceID:       "missing",
		PaymentMethodID: fx.paymentMethodID,
		StartDate:       time.Now(),
		Status:          entity.OrderStatusActive,
	})
	assert.ErrorIs(t, err, gerr.ErrInvalidReference)

	_, err = db.AddOrder(ctx, &entity.OrderInsert{
		ClientID:        fx.clientID,
		ServiceID:       fx.expiringID,
		PaymentMethodID: fx.paymentMethodID,
		StartDate:       time.Now(),
		Status:          entity.OrderStatusActive,
	})
	assert.ErrorIs(t, err, gerr.ErrEndDateRequired)

	clients, err := db.ListClients(ctx)
	assert.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, 0, clients[0].TotalOrders, "rejected order must not bump counters")
}

func TestExpireOverdueOrders(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()
	fx := newOrderFixture(t, db)

	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	_, err := db.AddOrder(ctx, &entity.OrderInsert{
		ClientID:        fx.clientID,
		ServiceID:       fx.expiringID,
		PaymentMethodID: fx.paymentMethodID,
		StartDate:       time.Now().AddDate(0, -1, 0),
		EndDate:         &yesterday,
		Status:          entity.OrderStatusActive,
	})
	require.NoError(t, err)

	_, err = db.AddOrder(ctx, &entity.OrderInsert{
		ClientID:        fx.clientID,
		ServiceID:       fx.expiringID,
		PaymentMethodID: fx.paymentMethodID,
		StartDate:       time.Now(),
		EndDate:         &tomorrow,
		Status:          entity.OrderStatusActive,
	})
	require.NoError(t, err)

	n, err := db.ExpireOverdueOrders(ctx, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = db.ExpireOverdueOrders(ctx, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	orders, err := db.ListOrders(ctx)
	assert.NoError(t, err)
	statuses := map[entity.OrderStatus]int{}
	for _, o := range orders {
		statuses[o.Status]++
	}
	assert.Equal(t, 1, statuses[entity.OrderStatusExpired])
	assert.Equal(t, 1, statuses[entity.OrderStatusActive])
}

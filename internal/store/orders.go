package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
	"github.com/aminejameli/dropservices-manager/internal/entity"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
	"github.com/aminejameli/dropservices-manager/internal/watch"
)

type ordersStore struct {
	*MYSQLStore
}

// Orders returns an object implementing the Orders interface
func (ms *MYSQLStore) Orders() dependency.Orders {
	return &ordersStore{
		MYSQLStore: ms,
	}
}

// ListOrders resolves service, client and payment method display names at
// read time; a deleted reference degrades to an empty string rather than
// failing the snapshot.
func (ms *MYSQLStore) ListOrders(ctx context.Context) ([]entity.Order, error) {
	query := `
	SELECT o.id, o.client_id, o.service_id, o.payment_method_id,
		o.start_date, o.end_date, o.price, o.cost, o.status,
		o.created_at, o.updated_at,
		COALESCE(s.name, '') AS service_name,
		COALESCE(c.client_name, '') AS client_name,
		COALESCE(pm.name, '') AS payment_method
	FROM orders o
	LEFT JOIN services s ON s.id = o.service_id
	LEFT JOIN clients c ON c.id = o.client_id
	LEFT JOIN payment_methods pm ON pm.id = o.payment_method_id
	ORDER BY o.created_at DESC`
	orders, err := QueryListNamed[entity.Order](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (ms *MYSQLStore) AddOrder(ctx context.Context, on *entity.OrderInsert) (string, error) {
	id := uuid.New().String()
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		if err := validateOrderRefs(ctx, rep.DB(), on); err != nil {
			return err
		}
		err := ExecNamed(ctx, rep.DB(), `
		INSERT INTO orders (id, client_id, service_id, payment_method_id, start_date, end_date, price, cost, status)
		VALUES (:id, :clientId, :serviceId, :paymentMethodId, :startDate, :endDate, :price, :cost, :status)`,
			orderParams(id, on))
		if err != nil {
			return fmt.Errorf("failed to add order: %w", err)
		}
		return ExecNamed(ctx, rep.DB(), `
		UPDATE clients
		SET total_orders = total_orders + 1, total_spent = total_spent + :price
		WHERE id = :clientId`, map[string]any{
			"clientId": on.ClientID,
			"price":    on.Price,
		})
	})
	if err != nil {
		return "", err
	}
	ms.events.Publish(watch.Orders)
	ms.events.Publish(watch.Clients)
	return id, nil
}

func (ms *MYSQLStore) UpdateOrder(ctx context.Context, id string, on *entity.OrderInsert) error {
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		old, err := QueryNamedOne[struct {
			ClientID string          `db:"client_id"`
			Price    decimal.Decimal `db:"price"`
		}](ctx, rep.DB(), `SELECT client_id, price FROM orders WHERE id = :id`, map[string]any{"id": id})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return gerr.ErrNotFound
			}
			return fmt.Errorf("failed to get order: %w", err)
		}
		if err := validateOrderRefs(ctx, rep.DB(), on); err != nil {
			return err
		}

		err = ExecNamed(ctx, rep.DB(), `
		UPDATE orders
		SET client_id = :clientId, service_id = :serviceId, payment_method_id = :paymentMethodId,
			start_date = :startDate, end_date = :endDate, price = :price, cost = :cost, status = :status
		WHERE id = :id`, orderParams(id, on))
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		err = ExecNamed(ctx, rep.DB(), `
		UPDATE clients
		SET total_orders = GREATEST(total_orders - 1, 0), total_spent = GREATEST(total_spent - :price, 0)
		WHERE id = :clientId`, map[string]any{
			"clientId": old.ClientID,
			"price":    old.Price,
		})
		if err != nil {
			return fmt.Errorf("failed to release old client counters: %w", err)
		}
		return ExecNamed(ctx, rep.DB(), `
		UPDATE clients
		SET total_orders = total_orders + 1, total_spent = total_spent + :price
		WHERE id = :clientId`, map[string]any{
			"clientId": on.ClientID,
			"price":    on.Price,
		})
	})
	if err != nil {
		return err
	}
	ms.events.Publish(watch.Orders)
	ms.events.Publish(watch.Clients)
	return nil
}

func (ms *MYSQLStore) DeleteOrderById(ctx context.Context, id string) error {
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		old, err := QueryNamedOne[struct {
			ClientID string          `db:"client_id"`
			Price    decimal.Decimal `db:"price"`
		}](ctx, rep.DB(), `SELECT client_id, price FROM orders WHERE id = :id`, map[string]any{"id": id})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return gerr.ErrNotFound
			}
			return fmt.Errorf("failed to get order: %w", err)
		}

		if err := ExecNamed(ctx, rep.DB(),
			`DELETE FROM orders WHERE id = :id`, map[string]any{"id": id}); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return ExecNamed(ctx, rep.DB(), `
		UPDATE clients
		SET total_orders = GREATEST(total_orders - 1, 0), total_spent = GREATEST(total_spent - :price, 0)
		WHERE id = :clientId`, map[string]any{
			"clientId": old.ClientID,
			"price":    old.Price,
		})
	})
	if err != nil {
		return err
	}
	ms.events.Publish(watch.Orders)
	ms.events.Publish(watch.Clients)
	return nil
}

// ExpireOverdueOrders is run by the expiry worker; it keeps the stored
// status in step with the dashboard's expired classification.
func (ms *MYSQLStore) ExpireOverdueOrders(ctx context.Context, today time.Time) (int, error) {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(), `
	UPDATE orders SET status = :expired
	WHERE status = :active AND end_date IS NOT NULL AND end_date <= :today`, map[string]any{
		"expired": string(entity.OrderStatusExpired),
		"active":  string(entity.OrderStatusActive),
		"today":   today.Format("2006-01-02"),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue orders: %w", err)
	}
	if ra > 0 {
		ms.events.Publish(watch.Orders)
	}
	return int(ra), nil
}

func orderParams(id string, on *entity.OrderInsert) map[string]any {
	return map[string]any{
		"id":              id,
		"clientId":        on.ClientID,
		"serviceId":       on.ServiceID,
		"paymentMethodId": on.PaymentMethodID,
		"startDate":       on.StartDate,
		"endDate":         on.EndDate,
		"price":           on.Price,
		"cost":            on.Cost,
		"status":          string(on.Status),
	}
}

// validateOrderRefs checks that the referenced rows exist and that an end
// date is present whenever the service expires.
func validateOrderRefs(ctx context.Context, conn dependency.DB, on *entity.OrderInsert) error {
	var hasExpiration bool
	err := conn.GetContext(ctx, &hasExpiration,
		`SELECT has_expiration FROM services WHERE id = ?`, on.ServiceID)
	if err != nil {
		return fmt.Errorf("%w: service %s", gerr.ErrInvalidReference, on.ServiceID)
	}
	if hasExpiration && on.EndDate == nil {
		return gerr.ErrEndDateRequired
	}

	count, err := QueryCountNamed(ctx, conn,
		`SELECT COUNT(*) FROM clients WHERE id = :id`, map[string]any{"id": on.ClientID})
	if err != nil || count == 0 {
		return fmt.Errorf("%w: client %s", gerr.ErrInvalidReference, on.ClientID)
	}
	count, err = QueryCountNamed(ctx, conn,
		`SELECT COUNT(*) FROM payment_methods WHERE id = :id`, map[string]any{"id": on.PaymentMethodID})
	if err != nil || count == 0 {
		return fmt.Errorf("%w: payment method %s", gerr.ErrInvalidReference, on.PaymentMethodID)
	}
	return nil
}

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
	"github.com/aminejameli/dropservices-manager/internal/entity"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
	"github.com/aminejameli/dropservices-manager/internal/watch"
)

type paymentMethodsStore struct {
	*MYSQLStore
}

// PaymentMethods returns an object implementing the PaymentMethods interface
func (ms *MYSQLStore) PaymentMethods() dependency.PaymentMethods {
	return &paymentMethodsStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) ListPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error) {
	query := `
	SELECT id, name, logo, description, example_last4, created_at, updated_at
	FROM payment_methods ORDER BY created_at DESC`
	pms, err := QueryListNamed[entity.PaymentMethod](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return pms, nil
}

func (ms *MYSQLStore) AddPaymentMethod(ctx context.Context, pn *entity.PaymentMethodInsert) (string, error) {
	id := uuid.New().String()
	err := ExecNamed(ctx, ms.DB(), `
	INSERT INTO payment_methods (id, name, logo, description, example_last4)
	VALUES (:id, :name, :logo, :description, :exampleLast4)`, map[string]any{
		"id":           id,
		"name":         pn.Name,
		"logo":         pn.Logo,
		"description":  pn.Description,
		"exampleLast4": pn.ExampleLast4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to add payment method: %w", err)
	}
	ms.events.Publish(watch.PaymentMethods)
	return id, nil
}

func (ms *MYSQLStore) UpdatePaymentMethod(ctx context.Context, id string, pn *entity.PaymentMethodInsert) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(), `
	UPDATE payment_methods
	SET name = :name, logo = :logo, description = :description, example_last4 = :exampleLast4
	WHERE id = :id`, map[string]any{
		"id":           id,
		"name":         pn.Name,
		"logo":         pn.Logo,
		"description":  pn.Description,
		"exampleLast4": pn.ExampleLast4,
	})
	if err != nil {
		return fmt.Errorf("failed to update payment method: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	ms.events.Publish(watch.PaymentMethods)
	return nil
}

func (ms *MYSQLStore) DeletePaymentMethodById(ctx context.Context, id string) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(),
		`DELETE FROM payment_methods WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	ms.events.Publish(watch.PaymentMethods)
	return nil
}

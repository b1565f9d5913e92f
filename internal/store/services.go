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

type servicesStore struct {
	*MYSQLStore
}

// Services returns an object implementing the Services interface
func (ms *MYSQLStore) Services() dependency.Services {
	return &servicesStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) ListServices(ctx context.Context) ([]entity.Service, error) {
	query := `
	SELECT id, name, status, has_expiration, image, created_at, updated_at
	FROM services ORDER BY created_at DESC`
	services, err := QueryListNamed[entity.Service](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (ms *MYSQLStore) AddService(ctx context.Context, sn *entity.ServiceInsert) (string, error) {
	id := uuid.New().String()
	err := ExecNamed(ctx, ms.DB(), `
	INSERT INTO services (id, name, status, has_expiration, image)
	VALUES (:id, :name, :status, :hasExpiration, :image)`, map[string]any{
		"id":            id,
		"name":          sn.Name,
		"status":        string(sn.Status),
		"hasExpiration": sn.HasExpiration,
		"image":         sn.Image,
	})
	if err != nil {
		return "", fmt.Errorf("failed to add service: %w", err)
	}
	ms.events.Publish(watch.Services)
	return id, nil
}

func (ms *MYSQLStore) UpdateService(ctx context.Context, id string, sn *entity.ServiceInsert) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(), `
	UPDATE services
	SET name = :name, status = :status, has_expiration = :hasExpiration, image = :image
	WHERE id = :id`, map[string]any{
		"id":            id,
		"name":          sn.Name,
		"status":        string(sn.Status),
		"hasExpiration": sn.HasExpiration,
		"image":         sn.Image,
	})
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	ms.events.Publish(watch.Services)
	return nil
}

func (ms *MYSQLStore) DeleteServiceById(ctx context.Context, id string) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(),
		`DELETE FROM services WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	ms.events.Publish(watch.Services)
	return nil
}

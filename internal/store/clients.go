package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
	"github.com/aminejameli/dropservices-manager/internal/entity"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
	"github.com/aminejameli/dropservices-manager/internal/watch"
)

type clientsStore struct {
	*MYSQLStore
}

// Clients returns an object implementing the Clients interface
func (ms *MYSQLStore) Clients() dependency.Clients {
	return &clientsStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) ListClients(ctx context.Context) ([]entity.Client, error) {
	query := `
	SELECT id, client_name, client_email, note, join_date, total_orders, total_spent, created_at, updated_at
	FROM clients ORDER BY created_at DESC`
	clients, err := QueryListNamed[entity.Client](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (ms *MYSQLStore) AddClient(ctx context.Context, cn *entity.ClientInsert) (string, error) {
	id := uuid.New().String()
	joinDate := cn.JoinDate
	if joinDate.IsZero() {
		joinDate = time.Now()
	}
	err := ExecNamed(ctx, ms.DB(), `
	INSERT INTO clients (id, client_name, client_email, note, join_date)
	VALUES (:id, :clientName, :clientEmail, :note, :joinDate)`, map[string]any{
		"id":          id,
		"clientName":  cn.ClientName,
		"clientEmail": cn.ClientEmail,
		"note":        cn.Note,
		"joinDate":    joinDate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to add client: %w", err)
	}
	ms.events.Publish(watch.Clients)
	return id, nil
}

func (ms *MYSQLStore) UpdateClient(ctx context.Context, id string, cn *entity.ClientInsert) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(), `
	UPDATE clients
	SET client_name = :clientName, client_email = :clientEmail, note = :note, join_date = :joinDate
	WHERE id = :id`, map[string]any{
		"id":          id,
		"clientName":  cn.ClientName,
		"clientEmail": cn.ClientEmail,
		"note":        cn.Note,
		"joinDate":    cn.JoinDate,
	})
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	ms.events.Publish(watch.Clients)
	return nil
}

func (ms *MYSQLStore) DeleteClientById(ctx context.Context, id string) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(),
		`DELETE FROM clients WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	ms.events.Publish(watch.Clients)
	return nil
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aminejameli/dropservices-manager/internal/entity"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
	"github.com/aminejameli/dropservices-manager/internal/watch"
)

func TestServicesCRUD(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	sub := db.Changes().Subscribe(watch.Services)
	defer sub.Cancel()

	id, err := db.AddService(ctx, &entity.ServiceInsert{
		Name:          "Netflix Premium",
		Status:        entity.ServiceStatusActive,
		HasExpiration: true,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	services, err := db.ListServices(ctx)
	assert.NoError(t, err)
	assert.Len(t, services, 1)
	assert.Equal(t, "Netflix Premium", services[0].Name)
	assert.True(t, services[0].HasExpiration)

	err = db.UpdateService(ctx, id, &entity.ServiceInsert{
		Name:          "Netflix Premium",
		Status:        entity.ServiceStatusPaused,
		HasExpiration: true,
	})
	assert.NoError(t, err)

	services, err = db.ListServices(ctx)
	assert.NoError(t, err)
	assert.Equal(t, entity.ServiceStatusPaused, services[0].Status)

	<-sub.Wait()
	assert.Contains(t, sub.Drain(), watch.Services)

	err = db.DeleteServiceById(ctx, id)
	assert.NoError(t, err)

	err = db.DeleteServiceById(ctx, id)
	assert.ErrorIs(t, err, gerr.ErrNotFound)

	services, err = db.ListServices(ctx)
	assert.NoError(t, err)
	assert.Empty(t, services)
}

func TestUpdateServiceNotFound(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	err := db.UpdateService(context.Background(), "missing", &entity.ServiceInsert{
		Name:   "Spotify Family",
		Status: entity.ServiceStatusActive,
	})
	assert.ErrorIs(t, err, gerr.ErrNotFound)
}

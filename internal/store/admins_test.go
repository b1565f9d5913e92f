package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aminejameli/dropservices-manager/internal/entity"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
)

func TestAdminLifecycle(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	assert.NoError(t, db.AddAdmin(ctx, "amine", "hash-1"))

	hash, err := db.PasswordHashByUsername(ctx, "amine")
	assert.NoError(t, err)
	assert.Equal(t, "hash-1", hash)

	assert.NoError(t, db.ChangePassword(ctx, "amine", "hash-2"))
	hash, err = db.PasswordHashByUsername(ctx, "amine")
	assert.NoError(t, err)
	assert.Equal(t, "hash-2", hash)

	assert.NoError(t, db.DeleteAdmin(ctx, "amine"))
	_, err = db.PasswordHashByUsername(ctx, "amine")
	assert.ErrorIs(t, err, gerr.ErrNotFound)
}

func TestMailOutbox(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	id, err := db.AddMail(ctx, &entity.SendEmailRequest{
		To:      "admin@dropservices.tn",
		Subject: "Orders expiring soon",
		Html:    "<p>2 orders are expiring soon</p>",
	})
	assert.NoError(t, err)

	unsent, err := db.GetAllUnsent(ctx, false)
	assert.NoError(t, err)
	assert.Len(t, unsent, 1)

	assert.NoError(t, db.AddError(ctx, id, "rate limited"))

	unsent, err = db.GetAllUnsent(ctx, false)
	assert.NoError(t, err)
	assert.Empty(t, unsent, "errored mail is excluded until retried with errors")

	unsent, err = db.GetAllUnsent(ctx, true)
	assert.NoError(t, err)
	assert.Len(t, unsent, 1)

	assert.NoError(t, db.UpdateSent(ctx, id))

	unsent, err = db.GetAllUnsent(ctx, true)
	assert.NoError(t, err)
	assert.Empty(t, unsent)
}

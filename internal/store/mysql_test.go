package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestDB connects to the database named by MYSQL_TEST_DSN and wipes every
// table. Tests in this package are skipped when the variable is unset.
func newTestDB(t *testing.T) *MYSQLStore {
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN is not set")
	}

	db, err := New(context.Background(), Config{
		DSN:         dsn,
		Automigrate: true,
	})
	assert.NoError(t, err)

	for _, table := range []string{
		"send_email_requests",
		"admins",
		"orders",
		"payment_methods",
		"clients",
		"services",
	} {
		_, err = db.db.ExecContext(context.Background(), "DELETE FROM "+table)
		assert.NoError(t, err)
	}

	return db
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
)

type adminStore struct {
	*MYSQLStore
}

// Admin returns an object implementing the Admin interface
func (ms *MYSQLStore) Admin() dependency.Admin {
	return &adminStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) AddAdmin(ctx context.Context, username, passwordHash string) error {
	err := ExecNamed(ctx, ms.DB(), `
	INSERT INTO admins (username, password_hash)
	VALUES (:username, :passwordHash)`, map[string]any{
		"username":     username,
		"passwordHash": passwordHash,
	})
	if err != nil {
		return fmt.Errorf("failed to add admin: %w", err)
	}
	return nil
}

func (ms *MYSQLStore) DeleteAdmin(ctx context.Context, username string) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(),
		`DELETE FROM admins WHERE username = :username`, map[string]any{"username": username})
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	return nil
}

func (ms *MYSQLStore) ChangePassword(ctx context.Context, username, newHash string) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(), `
	UPDATE admins SET password_hash = :passwordHash
	WHERE username = :username`, map[string]any{
		"username":     username,
		"passwordHash": newHash,
	})
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	return nil
}

func (ms *MYSQLStore) PasswordHashByUsername(ctx context.Context, username string) (string, error) {
	var hash string
	err := ms.DB().GetContext(ctx, &hash,
		`SELECT password_hash FROM admins WHERE username = ?`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", gerr.ErrNotFound
		}
		return "", fmt.Errorf("failed to get password hash: %w", err)
	}
	return hash, nil
}

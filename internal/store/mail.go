package store

import (
	"context"
	"fmt"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
	"github.com/aminejameli/dropservices-manager/internal/entity"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
)

type mailStore struct {
	*MYSQLStore
}

// Mail returns an object implementing the Mail interface
func (ms *MYSQLStore) Mail() dependency.Mail {
	return &mailStore{
		MYSQLStore: ms,
	}
}

// AddMail stores the outgoing email in the outbox and returns its id. The
// mail worker picks unsent rows up on its next tick.
func (ms *MYSQLStore) AddMail(ctx context.Context, ser *entity.SendEmailRequest) (int, error) {
	id, err := ExecNamedLastId(ctx, ms.DB(), `
	INSERT INTO send_email_requests (`+"`to`"+`, subject, html)
	VALUES (:to, :subject, :html)`, map[string]any{
		"to":      ser.To,
		"subject": ser.Subject,
		"html":    ser.Html,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add mail: %w", err)
	}
	return id, nil
}

func (ms *MYSQLStore) GetAllUnsent(ctx context.Context, withError bool) ([]entity.SendEmailRequest, error) {
	query := `
	SELECT id, ` + "`to`" + `, subject, html, sent, sent_at, error_msg, created_at
	FROM send_email_requests WHERE sent = FALSE`
	if !withError {
		query += ` AND error_msg IS NULL`
	}
	query += ` ORDER BY created_at ASC`

	reqs, err := QueryListNamed[entity.SendEmailRequest](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to get unsent mail: %w", err)
	}
	return reqs, nil
}

func (ms *MYSQLStore) UpdateSent(ctx context.Context, id int) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(), `
	UPDATE send_email_requests SET sent = TRUE, sent_at = NOW(), error_msg = NULL
	WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("failed to update sent: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	return nil
}

func (ms *MYSQLStore) AddError(ctx context.Context, id int, errMsg string) error {
	ra, err := ExecNamedRowsAffected(ctx, ms.DB(), `
	UPDATE send_email_requests SET error_msg = :errMsg
	WHERE id = :id`, map[string]any{
		"id":     id,
		"errMsg": errMsg,
	})
	if err != nil {
		return fmt.Errorf("failed to record mail error: %w", err)
	}
	if ra == 0 {
		return gerr.ErrNotFound
	}
	return nil
}

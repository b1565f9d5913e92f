package expiry

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/aminejameli/dropservices-manager/internal/dashboard"
)

func (w *Worker) worker(ctx context.Context) {
	ticker := time.NewTicker(w.c.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.tick(ctx); err != nil {
				slog.Default().ErrorContext(ctx, "expiry tick failed",
					slog.String("err", err.Error()),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) tick(ctx context.Context) error {
	now := time.Now()

	n, err := w.repo.Orders().ExpireOverdueOrders(ctx, now)
	if err != nil {
		return fmt.Errorf("can't expire overdue orders: %w", err)
	}
	if n > 0 {
		slog.Default().InfoContext(ctx, "expired overdue orders", slog.Int("count", n))
	}

	return w.sendDigest(ctx, now)
}

// sendDigest mails the worklist when there is anything on it and the last
// digest is old enough.
func (w *Worker) sendDigest(ctx context.Context, now time.Time) error {
	if w.mailer == nil || w.c.AdminEmail == "" {
		return nil
	}
	if !w.lastDigest.IsZero() && now.Sub(w.lastDigest) < w.c.DigestInterval {
		return nil
	}

	orders, err := w.repo.Orders().ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("can't list orders: %w", err)
	}
	wl := dashboard.Worklist(now, orders)
	if wl.Total == 0 {
		return nil
	}

	if _, err := w.mailer.SendExpiryDigest(ctx, w.c.AdminEmail, &wl); err != nil {
		return fmt.Errorf("can't send expiry digest: %w", err)
	}
	w.lastDigest = now
	return nil
}

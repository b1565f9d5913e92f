// Package app wires the service together: storage, media bucket, mailer,
// dashboard feed, expiry worker and the HTTP API.
package app

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/aminejameli/dropservices-manager/config"
	httpapi "github.com/aminejameli/dropservices-manager/internal/api/http"
	"github.com/aminejameli/dropservices-manager/internal/apisrv/admin"
	"github.com/aminejameli/dropservices-manager/internal/apisrv/auth"
	"github.com/aminejameli/dropservices-manager/internal/bucket"
	"github.com/aminejameli/dropservices-manager/internal/dependency"
	"github.com/aminejameli/dropservices-manager/internal/expiry"
	"github.com/aminejameli/dropservices-manager/internal/feed"
	"github.com/aminejameli/dropservices-manager/internal/mail"
	"github.com/aminejameli/dropservices-manager/internal/store"
)

type App struct {
	c *config.Config

	db      *store.MYSQLStore
	mailer  dependency.Mailer
	monitor *feed.Monitor
	expiry  *expiry.Worker
	hs      *httpapi.Server
}

func New(c *config.Config) *App {
	return &App{c: c}
}

// Start brings every component up in dependency order.
func (a *App) Start(ctx context.Context) error {
	var err error

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		return fmt.Errorf("can't connect to mysql: %w", err)
	}

	var files dependency.FileStore
	if a.c.Bucket.S3Endpoint != "" {
		files, err = bucket.New(&a.c.Bucket)
		if err != nil {
			return fmt.Errorf("can't init bucket: %w", err)
		}
	} else {
		slog.Default().WarnContext(ctx, "bucket is not configured, media upload disabled")
	}

	if a.c.Mailer.APIKey != "" {
		a.mailer, err = mail.New(&a.c.Mailer, a.db.Mail())
		if err != nil {
			return fmt.Errorf("can't init mailer: %w", err)
		}
		if err := a.mailer.Start(ctx); err != nil {
			return fmt.Errorf("can't start mailer: %w", err)
		}
	} else {
		slog.Default().WarnContext(ctx, "mailer is not configured, notifications disabled")
	}

	a.monitor = feed.New(a.db)
	if err := a.monitor.Start(ctx); err != nil {
		return fmt.Errorf("can't start dashboard feed: %w", err)
	}

	a.expiry = expiry.New(&a.c.Expiry, a.db, a.mailer)
	if err := a.expiry.Start(ctx); err != nil {
		return fmt.Errorf("can't start expiry worker: %w", err)
	}

	authSrv, err := auth.New(&a.c.Auth, a.db.Admin())
	if err != nil {
		return fmt.Errorf("can't init auth: %w", err)
	}
	adminSrv := admin.New(a.db, a.monitor, files)

	a.hs = httpapi.New(&a.c.HTTP)
	if err := a.hs.Start(ctx, adminSrv, authSrv); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	return nil
}

// Stop shuts components down in reverse order.
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed",
				slog.String("err", err.Error()))
		}
	}
	if a.expiry != nil {
		a.expiry.Stop()
	}
	if a.mailer != nil {
		a.mailer.Stop()
	}
	if a.monitor != nil {
		a.monitor.Stop()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// Done returns a channel that is closed when the http server exits.
func (a *App) Done() <-chan struct{} {
	if a.hs == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return a.hs.Done()
}

// Package expiry runs the subscription lifecycle worker: it flips overdue
// orders to expired and mails the admin a digest of orders that are expired
// or about to expire.
package expiry

import (
	"context"
	"fmt"
	"time"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
)

// Config holds configuration for the expiry worker.
type Config struct {
	WorkerInterval time.Duration `mapstructure:"worker_interval"`
	// AdminEmail receives the expiry digest; empty disables mailing.
	AdminEmail string `mapstructure:"admin_email"`
	// DigestInterval is the minimum spacing between digests, so a restart
	// or a short interval does not spam the admin.
	DigestInterval time.Duration `mapstructure:"digest_interval"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		WorkerInterval: time.Hour,
		DigestInterval: 24 * time.Hour,
	}
}

// Worker expires overdue orders and sends the digest mail.
type Worker struct {
	repo   dependency.Repository
	mailer dependency.Mailer
	c      *Config
	ctx    context.Context
	stop   context.CancelFunc

	lastDigest time.Time
}

// New creates a new expiry worker. mailer may be nil when mailing is not
// configured.
func New(c *Config, repo dependency.Repository, mailer dependency.Mailer) *Worker {
	if c == nil {
		dc := DefaultConfig()
		c = &dc
	}
	if c.WorkerInterval == 0 {
		c.WorkerInterval = time.Hour
	}
	if c.DigestInterval == 0 {
		c.DigestInterval = 24 * time.Hour
	}
	return &Worker{
		repo:   repo,
		mailer: mailer,
		c:      c,
	}
}

// Start starts the worker.
func (w *Worker) Start(ctx context.Context) error {
	if w.ctx != nil && w.stop != nil {
		return fmt.Errorf("expiry worker already started")
	}
	w.ctx, w.stop = context.WithCancel(ctx)
	go w.worker(w.ctx)
	return nil
}

// Stop stops the worker gracefully.
func (w *Worker) Stop() error {
	if w.stop == nil {
		return fmt.Errorf("expiry worker already stopped or not started")
	}
	w.stop()
	w.stop = nil
	return nil
}

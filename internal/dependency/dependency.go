package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aminejameli/dropservices-manager/internal/entity"
	"github.com/aminejameli/dropservices-manager/internal/watch"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	ContextStore interface {
		Tx(ctx context.Context, fn func(ctx context.Context, store Repository) error) error
	}

	Services interface {
		// ListServices returns the full snapshot, newest first.
		ListServices(ctx context.Context) ([]entity.Service, error)
		// AddService creates a service and returns its id.
		AddService(ctx context.Context, sn *entity.ServiceInsert) (string, error)
		// UpdateService replaces the mutable fields of a service.
		UpdateService(ctx context.Context, id string, sn *entity.ServiceInsert) error
		// DeleteServiceById deletes a service by its id.
		DeleteServiceById(ctx context.Context, id string) error
	}

	Orders interface {
		// ListOrders returns the full snapshot, newest first, with
		// service, client and payment method names resolved.
		ListOrders(ctx context.Context) ([]entity.Order, error)
		AddOrder(ctx context.Context, on *entity.OrderInsert) (string, error)
		UpdateOrder(ctx context.Context, id string, on *entity.OrderInsert) error
		DeleteOrderById(ctx context.Context, id string) error
		// ExpireOverdueOrders flips active orders whose end date is on or
		// before the given day to expired, returning how many changed.
		ExpireOverdueOrders(ctx context.Context, today time.Time) (int, error)
	}

	Clients interface {
		ListClients(ctx context.Context) ([]entity.Client, error)
		AddClient(ctx context.Context, cn *entity.ClientInsert) (string, error)
		UpdateClient(ctx context.Context, id string, cn *entity.ClientInsert) error
		DeleteClientById(ctx context.Context, id string) error
	}

	PaymentMethods interface {
		ListPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error)
		AddPaymentMethod(ctx context.Context, pn *entity.PaymentMethodInsert) (string, error)
		UpdatePaymentMethod(ctx context.Context, id string, pn *entity.PaymentMethodInsert) error
		DeletePaymentMethodById(ctx context.Context, id string) error
	}

	Admin interface {
		AddAdmin(ctx context.Context, username, passwordHash string) error
		DeleteAdmin(ctx context.Context, username string) error
		ChangePassword(ctx context.Context, username, newHash string) error
		PasswordHashByUsername(ctx context.Context, username string) (string, error)
	}

	Mail interface {
		AddMail(ctx context.Context, ser *entity.SendEmailRequest) (int, error)
		GetAllUnsent(ctx context.Context, withError bool) ([]entity.SendEmailRequest, error)
		UpdateSent(ctx context.Context, id int) error
		AddError(ctx context.Context, id int, errMsg string) error
	}

	Repository interface {
		Services() Services
		Orders() Orders
		Clients() Clients
		PaymentMethods() PaymentMethods
		Admin() Admin
		Mail() Mail
		// Changes is the hub every write publishes to.
		Changes() *watch.Hub
		// DB exposes the underlying connection, or the transaction when
		// the repository was handed out by Tx.
		DB() DB
		Tx(ctx context.Context, fn func(ctx context.Context, store Repository) error) error
		Close()
	}

	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	FileStore interface {
		// UploadImageFromBase64 uploads a raw base64 image and returns its public URL.
		UploadImageFromBase64(ctx context.Context, rawB64Image, folder, imageName string) (string, error)
		// UploadImageFromURL fetches an image by URL and re-uploads it to the bucket.
		UploadImageFromURL(ctx context.Context, url, folder, imageName string) (string, error)
		// GetBaseFolder returns the base folder for the bucket.
		GetBaseFolder() string
	}

	Mailer interface {
		SendExpiryDigest(ctx context.Context, to string, wl *entity.ExpiryWorklist) (*entity.SendEmailRequest, error)
		Start(ctx context.Context) error
		Stop() error
	}
)

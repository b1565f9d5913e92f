// Package mail renders notification emails, persists them in the outbox and
// delivers them through SendGrid. Delivery is retried by a background worker,
// so a provider hiccup never loses a notification.
package mail

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/aminejameli/dropservices-manager/internal/dependency"
	"github.com/aminejameli/dropservices-manager/internal/entity"
	gerr "github.com/aminejameli/dropservices-manager/internal/errors"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

type Config struct {
	APIKey         string        `mapstructure:"sendgrid_api_key"`
	FromEmail      string        `mapstructure:"from_email"`
	FromName       string        `mapstructure:"from_email_name"`
	WorkerInterval time.Duration `mapstructure:"worker_interval"`
}

// sender matches the SendGrid client surface the mailer needs.
type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type Mailer struct {
	cli            sender
	mailRepository dependency.Mail
	from           *mail.Email
	c              *Config
	ctx            context.Context
	cancel         context.CancelFunc
	templates      map[string]*template.Template
}

func New(c *Config, mailRepository dependency.Mail) (dependency.Mailer, error) {
	if c.APIKey == "" || c.FromEmail == "" || c.FromName == "" {
		return nil, fmt.Errorf("incomplete config: from [%s <%s>]", c.FromName, c.FromEmail)
	}

	m := &Mailer{
		cli:            sendgrid.NewSendClient(c.APIKey),
		mailRepository: mailRepository,
		from:           mail.NewEmail(c.FromName, c.FromEmail),
		c:              c,
		templates:      make(map[string]*template.Template),
	}
	if err := m.parseTemplates(); err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}
	return m, nil
}

func (m *Mailer) parseTemplates() error {
	dirEntries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("error reading template directory: %w", err)
	}
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		tmpl, err := template.ParseFS(templatesFS, filepath.Join("templates", entry.Name()))
		if err != nil {
			return fmt.Errorf("error parsing template '%s': %w", entry.Name(), err)
		}
		m.templates[entry.Name()] = tmpl
	}
	return nil
}

func (m *Mailer) buildSendMailRequest(to, tn string, data interface{}) (*entity.SendEmailRequest, error) {
	tmpl, ok := m.templates[tn]
	if !ok {
		return nil, fmt.Errorf("template not found: %v", tn)
	}
	subject, ok := templateSubjects[tn]
	if !ok {
		return nil, fmt.Errorf("subject not found for template: %v", tn)
	}

	body := &strings.Builder{}
	if err := tmpl.Execute(body, data); err != nil {
		return nil, fmt.Errorf("error executing template: %w", err)
	}

	return &entity.SendEmailRequest{
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}, nil
}

func (m *Mailer) sendRaw(ctx context.Context, ser *entity.SendEmailRequest) error {
	if ser.To == "" || ser.Html == "" {
		return gerr.BadMailRequest
	}

	msg := mail.NewSingleEmail(m.from, ser.Subject, mail.NewEmail("", ser.To), "", ser.Html)
	resp, err := m.cli.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return gerr.MailApiLimitReached
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("error sending email bad status code: %s, status code: %d", resp.Body, resp.StatusCode)
	}
	return nil
}

// sendWithInsert records the email in the outbox first, then attempts an
// immediate delivery. A failed attempt is left unsent for the worker.
func (m *Mailer) sendWithInsert(ctx context.Context, ser *entity.SendEmailRequest) (*entity.SendEmailRequest, error) {
	id, err := m.mailRepository.AddMail(ctx, ser)
	if err != nil {
		return nil, fmt.Errorf("error inserting email: %w", err)
	}
	ser.ID = id

	if err := m.sendRaw(ctx, ser); err != nil {
		return ser, nil
	}
	if err := m.mailRepository.UpdateSent(ctx, id); err != nil {
		return nil, fmt.Errorf("error updating sent status: %w", err)
	}
	ser.Sent = true
	return ser, nil
}

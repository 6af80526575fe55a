package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/compliqo/compliqo-backend/pkg/config"
)

// Attachment is a binary payload delivered alongside the HTML body.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one outbound email. Delivery is accepted/rejected at the
// transport boundary only; there is no delivery guarantee.
type Message struct {
	ToEmail    string
	ToName     string
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}

// Mailer is the delivery gateway surface. Implementations are injected
// explicitly into callers at construction time.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	client   sendClient
	from     string
	fromName string
}

// NewSendgridMailer builds a mailer from config. Returns an error rather
// than deferring construction; callers decide whether delivery is optional.
func NewSendgridMailer(cfg config.SendgridConfig) (*SendgridMailer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if strings.TrimSpace(cfg.DefaultFrom) == "" {
		return nil, fmt.Errorf("sendgrid from email is required")
	}
	return &SendgridMailer{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		from:     cfg.DefaultFrom,
		fromName: cfg.FromName,
	}, nil
}

// Send submits the message to the SendGrid transport.
func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return fmt.Errorf("recipient email is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("subject is required")
	}

	from := mail.NewEmail(m.fromName, m.from)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	email := mail.NewSingleEmail(from, msg.Subject, to, "", msg.HTMLBody)

	if msg.Attachment != nil {
		att := mail.NewAttachment()
		att.SetFilename(msg.Attachment.Filename)
		att.SetType(msg.Attachment.ContentType)
		att.SetContent(base64.StdEncoding.EncodeToString(msg.Attachment.Content))
		att.SetDisposition("attachment")
		email.AddAttachment(att)
	}

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

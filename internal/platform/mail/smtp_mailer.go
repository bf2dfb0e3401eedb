package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
)

// SMTPMailer delivers email through an SMTP relay. The client is constructed
// once and injected; send failures surface as apperrors.ErrDelivery.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer builds an SMTPMailer for the given relay.
func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}
	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

var _ portssvc.Deliverer = (*SMTPMailer)(nil)

// Send delivers one HTML message with optional attachments. The caller bounds
// the call with a context timeout since it depends on an external relay.
func (m *SMTPMailer) Send(ctx context.Context, to string, subject string, htmlBody string, attachments []portssvc.Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("%w: invalid sender %s: %v", apperrors.ErrDelivery, m.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("%w: invalid recipient %s: %v", apperrors.ErrDelivery, to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	for _, att := range attachments {
		var opts []gomail.FileOption
		if att.MimeType != "" {
			opts = append(opts, gomail.WithFileContentType(gomail.ContentType(att.MimeType)))
		}
		if err := msg.AttachReader(att.Filename, att.Content, opts...); err != nil {
			return fmt.Errorf("%w: attach %s: %v", apperrors.ErrDelivery, att.Filename, err)
		}
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDelivery, err)
	}
	return nil
}

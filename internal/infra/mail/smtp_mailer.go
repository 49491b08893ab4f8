// Package mail delivers rendered digests over SMTP.
package mail

import (
	"context"

	"github.com/Chaitraputtabudhi/prox-deals-automation/config"
	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/service"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"
)

// smtpMailer implements service.DigestMailer using an SMTP relay. A client
// is built once and reused; go-mail dials per send.
type smtpMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer is the constructor for smtpMailer.
func NewSMTPMailer(cfg *config.SMTPConfig) (service.DigestMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smtp client")
	}

	return &smtpMailer{
		client: client,
		from:   cfg.From,
	}, nil
}

// Send delivers one rendered digest to a single address.
func (m *smtpMailer) Send(ctx context.Context, address, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return domainerrors.ErrDeliveryFailed.Wrap(errors.Wrap(err, "invalid sender address"))
	}
	if err := msg.To(address); err != nil {
		return domainerrors.ErrDeliveryFailed.Wrap(errors.Wrapf(err, "invalid recipient address %q", address))
	}

	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return domainerrors.ErrDeliveryFailed.Wrap(errors.Wrap(err, "smtp delivery failed"))
	}

	return nil
}

package report

import (
	"context"
	"fmt"

	"fedjobs/internal/config"

	"github.com/wneessen/go-mail"
)

// SMTPSender delivers report mails through a plain SMTP relay, matching
// the local unauthenticated relay the service is deployed next to.
type SMTPSender struct {
	host string
	port int
	from string
}

func NewSMTPSender(config *config.Config) *SMTPSender {
	return &SMTPSender{
		host: config.SMTPHost,
		port: config.SMTPPort,
		from: config.ServiceEmail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, message Message) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(message.Subject)
	msg.AttachFile(message.Path)

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithTLSPolicy(mail.NoTLS),
	)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}

package mailing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-mail/mail"
)

type SMTP struct {
	dialer *mail.Dialer
	from   string
}

func NewSMTP(from, host string, port int, username, password string) *SMTP {
	d := mail.NewDialer(host, port, username, password)
	d.StartTLSPolicy = mail.OpportunisticStartTLS
	return &SMTP{
		dialer: d,
		from:   from,
	}
}

// Send dials a new connection per mail.
// The context only bounds the dial timeout.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := *s.dialer
	if deadline, ok := ctx.Deadline(); ok {
		d.Timeout = max(time.Until(deadline), time.Second)
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: failed to send email to %q: %w", msg.To, err)
	}
	return nil
}

package mailing

import "context"

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Message is a single outgoing mail with both an HTML and a plain text body.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	// ReplyTo defaults to the sender address.
	ReplyTo string
	// Tags label the mail for providers that support it, ignored otherwise.
	Tags map[string]string
}

// Noop discards every mail.
type Noop struct{}

func (Noop) Send(context.Context, Message) error {
	return nil
}

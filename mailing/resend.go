package mailing

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/resend/resend-go/v2"
)

type Resend struct {
	client *resend.Client
	from   string
}

func NewResend(from, apiKey string) *Resend {
	return &Resend{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (r *Resend) Send(ctx context.Context, m Message) error {
	req := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{m.To},
		Subject: m.Subject,
		Html:    m.HTML,
		Text:    m.Text,
		ReplyTo: cmp.Or(m.ReplyTo, r.from),
		Tags:    resendTags(m.Tags),
	}

	if _, err := r.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: send %q to %q: %w", m.Subject, m.To, err)
	}

	return nil
}

// resendTags sorts tags by name so requests are stable.
func resendTags(tags map[string]string) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}

	out := make([]resend.Tag, 0, len(tags))
	for _, name := range slices.Sorted(maps.Keys(tags)) {
		out = append(out, resend.Tag{Name: name, Value: tags[name]})
	}
	return out
}

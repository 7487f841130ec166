package mailer

import (
	"context"
	"errors"
	"net/http"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Send sends an email via Mailgun. html is optional; if provided it will be used as HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// Permanent reports whether Mailgun rejected the message outright, so that
// sending it again cannot succeed. Throttling and server errors are transient.
func Permanent(err error) bool {
	var resp *mg.UnexpectedResponseError
	if !errors.As(err, &resp) {
		return false
	}
	return resp.Actual >= 400 && resp.Actual < 500 && resp.Actual != http.StatusTooManyRequests
}

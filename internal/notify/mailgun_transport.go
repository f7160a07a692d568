package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const mailgunSendTimeout = 10 * time.Second

// MailgunTransport delivers messages through the Mailgun API.
type MailgunTransport struct {
	mg *mailgun.MailgunImpl
}

// NewMailgunTransport creates a transport for domain. An empty apiBase keeps the library default.
func NewMailgunTransport(domain, apiKey, apiBase string) *MailgunTransport {
	mg := mailgun.NewMailgun(domain, apiKey)
	if apiBase != "" {
		mg.SetAPIBase(apiBase)
	}
	return &MailgunTransport{mg: mg}
}

// Send queues the message with Mailgun.
func (t *MailgunTransport) Send(ctx context.Context, msg Message) (*Delivery, error) {
	ctx, cancel := context.WithTimeout(ctx, mailgunSendTimeout)
	defer cancel()

	message := t.mg.NewMessage(msg.From, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}

	_, id, err := t.mg.Send(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("mailgun send: %w", err)
	}
	return &Delivery{ID: id}, nil
}

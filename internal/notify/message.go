package notify

import "context"

// Message is a rendered email ready for a transport.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Delivery describes an accepted message. PreviewURL is only set by non-production transports.
type Delivery struct {
	ID         string `json:"message_id"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// Transport hands a message to a mail provider.
type Transport interface {
	Send(ctx context.Context, msg Message) (*Delivery, error)
}

// Package mail delivers the login emails. Delivery is a black box to the rest of the
// service: callers hand a Message to a Sender and only learn whether it failed.
package mail

import "context"

// Message is a single HTML email with its plain-text alternative.
type Message struct {
	FromName string
	From     string
	To       string
	Subject  string
	HTML     string
	Text     string
	Headers  map[string]string
}

// Sender delivers a message. Implementations must honor ctx cancellation.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg *Message) error

func (f SenderFunc) Send(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// NewHTMLMessage builds a message whose Text part is derived from the HTML body.
func NewHTMLMessage(fromName, from, to, subject, html string) *Message {
	return &Message{
		FromName: fromName,
		From:     from,
		To:       to,
		Subject:  subject,
		HTML:     html,
		Text:     HTMLToText(html),
		Headers: map[string]string{
			"X-Mailjet-TrackOpen":  "0",
			"X-Mailjet-TrackClick": "0",
		},
	}
}

package email

import "context"

// Message is a rendered email with a plain-text and an HTML part.
type Message struct {
	Subject  string
	TextBody string
	HTMLBody string
}

// EmailSender provides a testable abstraction over SES delivery.
type EmailSender interface {
	Send(ctx context.Context, recipient string, message Message) error
	SendFrom(ctx context.Context, recipient string, message Message, sender string) error
}

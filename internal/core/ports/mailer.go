package ports

import "context"

// Mail is a single outbound message with both plain-text and HTML bodies.
type Mail struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer defines the contract for outbound customer notifications.
// Implementations deliver the message or return an error; retry policy
// belongs to the caller.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

package ports

import "context"

// EmailMessage is a plain-text email.
type EmailMessage struct {
	To      string
	Subject string
	Text    string
}

// Mailer delivers email synchronously. A returned error means the message was
// not handed to the transport.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// Notifier queues best-effort notifications; delivery failures are not
// reported to the caller.
type Notifier interface {
	Notify(msg EmailMessage)
}

package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/ecommerce-api/internal/core/ports"
)

// LogMailer writes messages to the log instead of sending them. It is used
// when mail delivery is disabled, e.g. in development.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "log_mailer").Logger()}
}

func (m *LogMailer) Send(_ context.Context, msg ports.EmailMessage) error {
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("email not sent: delivery disabled")
	return nil
}

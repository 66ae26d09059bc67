// Package mail implements ports.Mailer.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/storefront/ecommerce-api/internal/core/ports"
)

const sendTimeout = 10 * time.Second

// Config holds the Mailgun credentials and sender identity.
type Config struct {
	Domain  string
	APIKey  string
	APIBase string
	Sender  string
}

// Mailgun delivers email through the Mailgun HTTP API.
type Mailgun struct {
	client *mailgun.MailgunImpl
	sender string
}

func NewMailgun(cfg Config) *Mailgun {
	client := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		client.SetAPIBase(cfg.APIBase)
	}
	return &Mailgun{client: client, sender: cfg.Sender}
}

// Send hands msg to Mailgun and waits for the API to accept it.
func (m *Mailgun) Send(ctx context.Context, msg ports.EmailMessage) error {
	message := m.client.NewMessage(m.sender, msg.Subject, msg.Text, msg.To)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, _, err := m.client.Send(ctx, message); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", msg.To, err)
	}
	return nil
}

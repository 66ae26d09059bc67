package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/ecommerce-api/internal/core/ports"
)

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf))

	err := m.Send(context.Background(), ports.EmailMessage{
		To:      "a@example.com",
		Subject: "Ecommerce Password Recovery",
		Text:    "link",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"to":"a@example.com"`)
	assert.Contains(t, out, `"subject":"Ecommerce Password Recovery"`)
	assert.Contains(t, out, `"component":"log_mailer"`)
}

package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/ecommerce-api/internal/core/ports"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.EmailMessage
	fail map[string]bool
}

func (m *recordingMailer) Send(_ context.Context, msg ports.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[msg.To] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) snapshot() []ports.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.EmailMessage(nil), m.sent...)
}

func TestDispatcher_DeliversInOrderPerRecipient(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(3, mailer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	subjects := []string{"one", "two", "three", "four"}
	for _, s := range subjects {
		d.Notify(ports.EmailMessage{To: "same@example.com", Subject: s})
	}
	d.Notify(ports.EmailMessage{To: "other@example.com", Subject: "x"})

	require.Eventually(t, func() bool { return len(mailer.snapshot()) == 5 }, 2*time.Second, 10*time.Millisecond)

	var got []string
	for _, m := range mailer.snapshot() {
		if m.To == "same@example.com" {
			got = append(got, m.Subject)
		}
	}
	assert.Equal(t, subjects, got)
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	mailer := &recordingMailer{fail: map[string]bool{"bad@example.com": true}}
	d := NewDispatcher(1, mailer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Notify(ports.EmailMessage{To: "bad@example.com", Subject: "a"})
	d.Notify(ports.EmailMessage{To: "good@example.com", Subject: "b"})

	require.Eventually(t, func() bool { return len(mailer.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "good@example.com", mailer.snapshot()[0].To)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingMailer{}, zerolog.Nop())
	a := d.shardIndex("User@Example.com")
	assert.Equal(t, a, d.shardIndex("user@example.com"))
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 8)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(1, mailer, zerolog.Nop())
	// not started: nothing drains the channel
	for i := 0; i < channelBuffer+5; i++ {
		d.Notify(ports.EmailMessage{To: "a@example.com"})
	}
	assert.Len(t, d.workers[0], channelBuffer)
}

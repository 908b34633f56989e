package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent chan *gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	for _, msg := range m {
		f.sent <- msg
	}
	return f.err
}

func TestNewMailWithoutSender(t *testing.T) {
	t.Setenv(KeyEmailSender, "")
	err := NewMail(context.Background(), "s", "b", KeyEmailBodyPlain, PurposeInactivityReminder, "a@b.co")
	assert.ErrorIs(t, err, pulse_errors.ErrEmailServiceStopped)
}

func TestNewMailCancelledContext(t *testing.T) {
	t.Setenv(KeyEmailSender, "bot@pulse.dev")

	// fill the queue so NewMail would block
	for len(emailChan) < cap(emailChan) {
		emailChan <- emailJob{}
	}
	t.Cleanup(func() {
		for len(emailChan) > 0 {
			<-emailChan
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMail(ctx, "s", "b", KeyEmailBodyPlain, PurposeInactivityReminder, "a@b.co")
	assert.ErrorIs(t, err, pulse_errors.ErrEmailServiceStopped)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReminderIsSentByWorker(t *testing.T) {
	t.Setenv(KeyEmailSender, "bot@pulse.dev")
	sender := &fakeSender{sent: make(chan *gomail.Message, 2), err: errors.New("smtp down")}
	startWorkers(1, sender)

	e := &EmailService{}
	e.Start()
	require.NoError(t, e.SendInactivityReminder(context.Background(), "ada@example.com", "Ada", "ada_l", 7))

	select {
	case msg := <-sender.sent:
		assert.Equal(t, []string{"ada@example.com"}, msg.GetHeader(KeyEmailTo))
		assert.Equal(t, []string{"bot@pulse.dev"}, msg.GetHeader(KeyEmailFrom))
	case <-time.After(2 * time.Second):
		t.Fatal("reminder was not sent")
	}
}

package smtpmailer

import (
	"context"
	"testing"

	"phantomtrack/internal/core/ports"
	"phantomtrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer_RequiresHostAndPort(t *testing.T) {
	_, err := NewMailer("", "587", "user", "pass", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = NewMailer("smtp.example.com", "", "user", "pass", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewMailer_FromDefaultsToUsername(t *testing.T) {
	mailer, err := NewMailer("smtp.example.com", "587", "orders@phantomtrack.dev", "pass", "")
	require.NoError(t, err)
	assert.Equal(t, "orders@phantomtrack.dev", mailer.from)
}

func TestSend_RespectsCancelledContext(t *testing.T) {
	mailer, err := NewMailer("smtp.example.com", "587", "user", "pass", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = mailer.Send(ctx, ports.Mail{To: "jamie@example.com"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMessage_BuildsMultipartAlternative(t *testing.T) {
	mailer, err := NewMailer("smtp.example.com", "587", "", "", "orders@phantomtrack.dev")
	require.NoError(t, err)

	msg := string(mailer.message(ports.Mail{
		To:       "jamie@example.com",
		Subject:  "Your order has shipped",
		TextBody: "Tracking: 9400100000000000000001",
		HTMLBody: "<p>Tracking: 9400100000000000000001</p>",
	}))

	assert.Contains(t, msg, "From: orders@phantomtrack.dev\r\n")
	assert.Contains(t, msg, "To: jamie@example.com\r\n")
	assert.Contains(t, msg, "Subject: Your order has shipped\r\n")
	assert.Contains(t, msg, "Content-Type: multipart/alternative; boundary="+mimeBoundary)
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\nTracking: 9400100000000000000001")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>Tracking: 9400100000000000000001</p>")
	assert.Contains(t, msg, "--"+mimeBoundary+"--\r\n")
}

// Package stdout implements a dry-run Mailer that prints messages to
// standard output instead of dispatching them.
package stdout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Oolga/ses-courier/internal/email"
	"github.com/Oolga/ses-courier/internal/mailer"
)

// localQuota is the fixed quota reported by the dry-run backend.
var localQuota = mailer.Quota{
	Max24HourSend: 200,
	MaxSendRate:   1,
}

// Mailer prints email messages in a human-readable format and issues
// synthetic receipts.
type Mailer struct {
	// writer is the output destination, defaulting to os.Stdout.
	writer io.Writer
	sent   int
}

// New creates a new dry-run Mailer that writes to os.Stdout.
func New() *Mailer {
	return &Mailer{writer: os.Stdout}
}

// NewWithWriter creates a dry-run Mailer that writes to the given writer.
// This is useful for testing.
func NewWithWriter(w io.Writer) *Mailer {
	return &Mailer{writer: w}
}

// Send prints the message and returns a synthetic receipt.
func (m *Mailer) Send(_ context.Context, msg *email.Message) (*mailer.Receipt, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var b strings.Builder

	b.WriteString("========================================\n")
	b.WriteString(fmt.Sprintf("From: %s\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\n", strings.Join(msg.To, ", ")))

	if len(msg.Cc) > 0 {
		b.WriteString(fmt.Sprintf("Cc: %s\n", strings.Join(msg.Cc, ", ")))
	}
	if len(msg.Bcc) > 0 {
		b.WriteString(fmt.Sprintf("Bcc: %s\n", strings.Join(msg.Bcc, ", ")))
	}

	b.WriteString(fmt.Sprintf("Subject: %s\n", msg.Subject))
	b.WriteString("Body:\n")

	body := msg.TextBody
	if body == "" {
		body = msg.HTMLBody
	}
	b.WriteString(body + "\n")
	b.WriteString("========================================\n")

	fmt.Fprint(m.writer, b.String())

	return m.receipt(), nil
}

// SendRaw prints the serialized MIME document and returns a synthetic
// receipt.
func (m *Mailer) SendRaw(_ context.Context, msg *email.Message) (*mailer.Receipt, error) {
	raw, err := email.BuildRaw(msg)
	if err != nil {
		return nil, err
	}

	fmt.Fprint(m.writer, string(raw))
	fmt.Fprint(m.writer, "\n")

	return m.receipt(), nil
}

// VerifyIdentity logs the request and always accepts it.
func (m *Mailer) VerifyIdentity(_ context.Context, address string) error {
	slog.Info("dry-run identity verification requested", "address", address)
	return nil
}

// SendQuota returns a fixed local quota reflecting the messages printed
// so far.
func (m *Mailer) SendQuota(_ context.Context) (*mailer.Quota, error) {
	quota := localQuota
	quota.SentLast24Hours = float64(m.sent)
	return &quota, nil
}

// Name returns the backend name.
func (m *Mailer) Name() string {
	return "stdout"
}

func (m *Mailer) receipt() *mailer.Receipt {
	m.sent++
	return &mailer.Receipt{MessageID: fmt.Sprintf("dry-run-%d", m.sent)}
}

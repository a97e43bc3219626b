// Package mailer defines the delivery capability implemented by email
// backends, together with the result types they share.
package mailer

import (
	"context"

	"github.com/Oolga/ses-courier/internal/email"
)

// Receipt is the provider's acknowledgement of an accepted send.
type Receipt struct {
	// MessageID is the provider-issued identifier, returned unchanged.
	MessageID string
}

// Quota describes the account's current sending ceiling and usage.
type Quota struct {
	// Max24HourSend is the maximum number of messages per rolling
	// 24-hour window.
	Max24HourSend float64
	// MaxSendRate is the maximum number of messages per second.
	MaxSendRate float64
	// SentLast24Hours is the count already sent in the current window.
	SentLast24Hours float64
}

// Mailer is the interface that email delivery backends must implement.
// Every method is a single blocking round-trip to the provider: no
// retries, no backoff, no circuit breaking.
type Mailer interface {
	// Send dispatches the message as structured fields (subject, body
	// parts, destination lists).
	Send(ctx context.Context, msg *email.Message) (*Receipt, error)

	// SendRaw dispatches the message as a serialized MIME document.
	SendRaw(ctx context.Context, msg *email.Message) (*Receipt, error)

	// VerifyIdentity asks the provider to start verification of the
	// given address, which triggers an out-of-band confirmation email.
	// A nil error means the request was accepted, not that the address
	// owner has confirmed it.
	VerifyIdentity(ctx context.Context, address string) error

	// SendQuota reports the account's sending limits.
	SendQuota(ctx context.Context) (*Quota, error)

	// Name returns the human-readable name of this backend.
	Name() string
}

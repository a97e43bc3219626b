// Package email defines the outbound message model and its serialization
// to a raw MIME document.
package email

import "errors"

// Message represents a single outbound email. It is constructed once per
// dispatch and never mutated afterwards.
type Message struct {
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	HTMLBody string
	TextBody string
}

// Validate reports whether the message can be dispatched. Sender
// verification is a provider concern and is not checked locally.
func (m *Message) Validate() error {
	if m.From == "" {
		return errors.New("sender address is required")
	}
	if len(m.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	if m.HTMLBody == "" {
		return errors.New("html body is required")
	}
	return nil
}

// Recipients returns the complete delivery list: To, Cc and Bcc in order.
// The raw send path hands this to the provider explicitly; delivery targets
// come from this list, never from the document's headers.
func (m *Message) Recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	out = append(out, m.To...)
	out = append(out, m.Cc...)
	out = append(out, m.Bcc...)
	return out
}

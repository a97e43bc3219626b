package email

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// BuildRaw serializes the message as a multipart/alternative MIME document.
// Parts are ordered least- to most-preferred: the plain-text alternative
// first when present, the HTML part always last.
func BuildRaw(msg *Message) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", sanitizeHeader(msg.From))
	fmt.Fprintf(&buf, "To: %s\r\n", sanitizeHeader(strings.Join(msg.To, ", ")))
	if len(msg.Cc) > 0 {
		fmt.Fprintf(&buf, "Cc: %s\r\n", sanitizeHeader(strings.Join(msg.Cc, ", ")))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", writer.Boundary())

	if msg.TextBody != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Type", "text/plain; charset=UTF-8")
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create text part: %w", err)
		}
		part.Write([]byte(msg.TextBody))
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", "text/html; charset=UTF-8")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create html part: %w", err)
	}
	part.Write([]byte(msg.HTMLBody))

	writer.Close()
	return buf.Bytes(), nil
}

// sanitizeHeader strips CR and LF so user-supplied values cannot inject
// additional headers into the document.
func sanitizeHeader(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", ""), "\n", "")
}

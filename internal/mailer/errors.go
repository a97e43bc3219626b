package mailer

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Kind classifies a delivery failure so callers can distinguish causes
// without parsing log output.
type Kind string

const (
	// KindRejected means the provider refused the request itself, for
	// example an unverified sender or a malformed address.
	KindRejected Kind = "rejected"

	// KindThrottled means the provider turned the request away for rate
	// or quota reasons.
	KindThrottled Kind = "throttled"

	// KindAccessDenied means the credential chain resolved but was not
	// permitted to perform the operation.
	KindAccessDenied Kind = "access_denied"

	// KindUnavailable covers transport failures and anything the
	// provider did not attribute to the request.
	KindUnavailable Kind = "unavailable"
)

// Error is a classified delivery failure.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.err)
}

// Unwrap exposes the underlying provider error.
func (e *Error) Unwrap() error { return e.err }

// Classify wraps err with the failure kind derived from the provider's
// API error code.
func Classify(op string, err error) error {
	return &Error{Kind: kindOf(err), Op: op, err: err}
}

func kindOf(err error) Kind {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return KindUnavailable
	}

	switch ae.ErrorCode() {
	case "MessageRejected",
		"BadRequestException",
		"MailFromDomainNotVerifiedException",
		"AccountSuspendedException",
		"SendingPausedException",
		"NotFoundException":
		return KindRejected
	case "TooManyRequestsException",
		"LimitExceededException",
		"Throttling",
		"ThrottlingException":
		return KindThrottled
	case "AccessDeniedException",
		"AccessDenied",
		"UnrecognizedClientException",
		"InvalidClientTokenId",
		"ExpiredToken",
		"ExpiredTokenException":
		return KindAccessDenied
	default:
		return KindUnavailable
	}
}

package translator

import (
	"errors"
	"fmt"
)

// Kind classifies why a job attempt failed.
type Kind int

const (
	// KindNetwork covers transport failures and non-success HTTP statuses.
	KindNetwork Kind = iota + 1
	// KindProtocol covers success statuses with a malformed or incomplete body.
	KindProtocol
	// KindRemote means the service reported the job as failed.
	KindRemote
	// KindTimeout means no terminal status arrived before the deadline.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindProtocol:
		return "protocol"
	case KindRemote:
		return "remote"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MessageUnreachable   = "Could not reach the translation service."
	MessageRemoteDefault = "Translation failed on the server."
	MessageTimedOut      = "Translation timed out. Try again or check the service."
)

// ErrEmptyUpload is returned by Submit when there is nothing to send.
var ErrEmptyUpload = errors.New("upload is empty")

// Error describes a failed request against the translation service.
type Error struct {
	Op         string // "submit", "poll" or "health"
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Errors that did not originate here count as
// network failures.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind != 0 {
		return apiErr.Kind
	}
	return KindNetwork
}

// UserMessage returns the text shown for a failure of the given kind.
// remote is only used for KindRemote.
func UserMessage(kind Kind, remote string) string {
	switch kind {
	case KindRemote:
		if remote != "" {
			return remote
		}
		return MessageRemoteDefault
	case KindTimeout:
		return MessageTimedOut
	default:
		return MessageUnreachable
	}
}

func statusError(op string, code int, rel string) *Error {
	return &Error{
		Op:         op,
		Kind:       KindNetwork,
		StatusCode: code,
		Message:    fmt.Sprintf("api %s returned status %d", rel, code),
	}
}

package llm

import (
	"errors"
	"net"
)

var (
	// ErrUnavailable indicates the generation backend is unreachable.
	ErrUnavailable = errors.New("generation backend unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("generation request timed out")

	// ErrInvalidOutput indicates the backend answered without usable text.
	ErrInvalidOutput = errors.New("invalid generation output")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("generation retry attempts exhausted")

	// ErrMissingAPIKey indicates a hosted provider was selected without a key.
	ErrMissingAPIKey = errors.New("missing api key")
)

// ErrorCode maps an error to a short code for logs and events.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrMissingAPIKey):
		return "NO_API_KEY"
	default:
		return "UNKNOWN"
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

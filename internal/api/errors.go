package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrUnavailable covers everything where no usable response arrived:
// connection refused, DNS failure, timeout. The UI maps it to the fixed
// "connection error" message and stays retryable.
var ErrUnavailable = errors.New("coach API unavailable")

// BackendError carries an application error the backend reported in a
// response body ({"error": "..."}), with the HTTP status it came with.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("coach API error (status %d): %s", e.Status, e.Message)
}

// IsUnavailable reports whether err is a connectivity-class failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// AsBackendError unwraps a backend-reported error, if any.
func AsBackendError(err error) (*BackendError, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", ErrUnavailable)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: request timed out", ErrUnavailable)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

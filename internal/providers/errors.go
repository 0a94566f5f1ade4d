package providers

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrProviderUnavailable is returned when a decorator has no inner provider.
var ErrProviderUnavailable = errors.New("provider unavailable")

// APIError carries a non-2xx hub response: the server-provided message when
// the envelope contains one, otherwise the HTTP status text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("hub: %s (status=%d)", msg, e.StatusCode)
}

// AsAPIError attempts to unwrap an error into an APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRetryable reports whether an error is worth retrying. Client errors
// (authorization rejections, validation) are terminal for the action.
func IsRetryable(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode >= http.StatusInternalServerError ||
			apiErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}

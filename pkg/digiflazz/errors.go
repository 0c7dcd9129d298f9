package digiflazz

import (
	"fmt"
	"net/http"
)

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend returned HTTP %d %s", e.Status, http.StatusText(e.Status))
}

// APIError is returned when the backend envelope carries success=false.
// Message is the backend-supplied text, shown to users verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "backend reported failure"
	}
	return e.Message
}

// NetworkError wraps failures where no usable response was obtained:
// transport errors, truncated bodies and undecodable payloads.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

package client

import (
	"fmt"

	"github.com/maruel/corectl/api"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Route      string
	StatusCode int
	// API is the decoded error body, nil when the body is not a valid Error.
	API  *api.Error
	Body []byte
}

func (e *StatusError) Error() string {
	if e.API != nil {
		return fmt.Sprintf("%s: %d %s", e.Route, e.StatusCode, e.API.Error())
	}
	return fmt.Sprintf("%s: status %d", e.Route, e.StatusCode)
}

// TransportError is returned when the request could not be completed or the
// response body could not be read.
type TransportError struct {
	Route string
	Err   error
}

func (e *TransportError) Error() string { return e.Route + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

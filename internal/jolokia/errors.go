package jolokia

import "fmt"

// ConnectionError indicates the bridge could not be reached at all: dial
// failure, DNS failure, or timeout. Reported as UNKNOWN at the boundary.
type ConnectionError struct {
	// URL is the request that failed.
	URL string

	// Err is the underlying transport error.
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to jolokia at %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ResponseError indicates the bridge answered but not with a usable value:
// non-200 status, malformed payload, an embedded bridge error, or a missing
// bean, attribute, or key. Reported as UNKNOWN at the boundary.
type ResponseError struct {
	// URL is the request whose response was unusable.
	URL string

	// Reason describes what was wrong with the response.
	Reason string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("invalid response from jolokia at %s: %s", e.URL, e.Reason)
}

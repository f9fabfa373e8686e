package transit

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is wrapped by a FetchError for a non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// FetchError reports a failed upstream request of any alert or schedule
// source: a transport failure, a non-2xx status or a body that could not be
// decoded.
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrMissingIdentity     = errors.New("missing user email (auth or ?email=)")
	ErrParticipantNotFound = errors.New("participant not found for email")
	ErrUpstreamTimeout     = errors.New("upstream request timed out")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// UpstreamError is returned when the training provider answers with a non-2xx status.
// Details holds the decoded response body (or nil when it was not JSON).
type UpstreamError struct {
	Endpoint string
	Status   int
	Details  any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.Endpoint, e.Status)
}

// AsUpstreamError unwraps err into an *UpstreamError when possible.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

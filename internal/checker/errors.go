package checker

import (
	"fmt"

	"md-link-check/internal/domain"
)

// ProbeError is the error kept on a verdict when a probe could not get a
// response.
type ProbeError struct {
	Method string
	Link   domain.Link
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Link, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

package worker

import (
	"fmt"

	"md-link-check/internal/domain"
)

// CheckError is a failure of the pool itself while link was being checked,
// as opposed to a failure of the link.
type CheckError struct {
	Link  domain.Link
	Stage string
	Err   error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Link, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

func NewCheckError(link domain.Link, stage string, err error) error {
	return &CheckError{
		Link:  link,
		Stage: stage,
		Err:   err,
	}
}

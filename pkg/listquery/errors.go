package listquery

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the only error kind the pipeline produces. Every failure is a
// precondition violated by the caller; none depends on the data.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError describes which query parameter was rejected.
type InvalidArgumentError struct {
	Param  string
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument: %s %q: %s", e.Param, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid argument: %s: %s", e.Param, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidArgument) succeed.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalid(param, field, reason string) error {
	return &InvalidArgumentError{Param: param, Field: field, Reason: reason}
}

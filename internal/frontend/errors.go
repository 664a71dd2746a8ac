package frontend

import (
	"errors"
	"fmt"
)

var (
	// ErrInvocation marks failures of the frontend itself, as opposed to
	// problems in the analyzed source.
	ErrInvocation = errors.New("frontend invocation failed")
	// ErrInvalidOptions is returned for options the frontend cannot use.
	ErrInvalidOptions = errors.New("invalid frontend options")
	// ErrForeignTree is returned when a tree from another unit is passed to
	// Unit.SemanticModel.
	ErrForeignTree = errors.New("syntax tree does not belong to this unit")
)

// InvocationError wraps the cause of a frontend invocation failure.
type InvocationError struct {
	Op  string
	Err error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvocation, e.Op, e.Err)
}

func (e *InvocationError) Unwrap() []error {
	return []error{ErrInvocation, e.Err}
}

// Invocation wraps err as an InvocationError; nil stays nil.
func Invocation(op string, err error) error {
	if err == nil {
		return nil
	}
	var ie *InvocationError
	if errors.As(err, &ie) {
		return err
	}
	return &InvocationError{Op: op, Err: err}
}

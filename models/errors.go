package models

import (
	"errors"
	"fmt"
)

// ErrInvalidEnum is wrapped by every enum parser when the value is not part of the closed set
var ErrInvalidEnum = errors.New("invalid enum value")

// InvalidAmountError reports a monetary field that is not a finite decimal number
type InvalidAmountError struct {
	Value string
	Err   error
}

func (e *InvalidAmountError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid monetary amount %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid monetary amount %q", e.Value)
}

func (e *InvalidAmountError) Unwrap() error {
	return e.Err
}

func enumError(kind, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidEnum, kind, value)
}

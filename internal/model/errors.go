package model

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is the sentinel matched by errors.Is for every
// parameter validation failure surfaced by the core.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError reports a rejected parameter together with the
// offending value. It matches ErrInvalidParameter under errors.Is.
type InvalidParameterError struct {
	Param  string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Param, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// InvalidParam builds an InvalidParameterError.
func InvalidParam(param string, value interface{}, reason string) error {
	return &InvalidParameterError{Param: param, Value: value, Reason: reason}
}

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingOption matches every *MissingOptionError.
	ErrMissingOption = errors.New("required key not provided")
	// ErrInvalidValue matches every *InvalidValueError.
	ErrInvalidValue = errors.New("invalid option value")
)

// MissingOptionError reports a required key absent from the configuration.
type MissingOptionError struct {
	Key string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("required key not provided: %s", e.Key)
}

func (e *MissingOptionError) Is(target error) bool {
	return target == ErrMissingOption
}

// InvalidValueError reports a present value that fails its type or range check.
type InvalidValueError struct {
	Key        string
	Constraint string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Key, e.Constraint)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

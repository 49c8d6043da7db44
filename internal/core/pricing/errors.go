package pricing

import (
	"errors"
	"fmt"
)

// ErrUnknownModel is matched by every *UnknownModelError via errors.Is
var ErrUnknownModel = errors.New("unknown model")

// ErrInvalidRate is returned when a rate table carries a negative price
var ErrInvalidRate = errors.New("rate must not be negative")

// ErrDuplicateRate is returned when a rate file prices the same model twice
var ErrDuplicateRate = errors.New("duplicate rate")

// UnknownModelError reports a provider/model pair missing from the rate table
type UnknownModelError struct {
	Provider string
	Model    string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model: %s:%s", e.Provider, e.Model)
}

// Is makes errors.Is(err, ErrUnknownModel) true
func (e *UnknownModelError) Is(target error) bool {
	return target == ErrUnknownModel
}

// AsUnknownModel extracts an *UnknownModelError from err's chain
func AsUnknownModel(err error) (*UnknownModelError, bool) {
	var unknown *UnknownModelError
	if errors.As(err, &unknown) {
		return unknown, true
	}
	return nil, false
}

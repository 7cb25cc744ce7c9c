package counter

import "errors"

var (
	// ErrInvalidAmount is returned when an increment or decrement argument
	// is not an integer.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidStep is returned for a config whose step is not positive.
	ErrInvalidStep = errors.New("step must be positive")
)

package game

import (
	"errors"
	"fmt"
)

// Validation failures. Every rejected operation wraps exactly one of these and
// leaves the round and session unchanged.
var (
	ErrInvalidAction        = errors.New("invalid action")
	ErrInsufficientChips    = errors.New("insufficient chips")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ValidateBoot checks that a boot amount is within range and on a step boundary
func ValidateBoot(n int) error {
	if n < MinBoot || n > MaxBoot || n%BootStep != 0 {
		return fmt.Errorf("%w: boot amount %d must be between %d and %d in steps of %d",
			ErrInvalidConfiguration, n, MinBoot, MaxBoot, BootStep)
	}
	return nil
}

// ErrorCode maps an error onto a stable short code for clients and metrics
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidAction):
		return "invalid_action"
	case errors.Is(err, ErrInsufficientChips):
		return "insufficient_chips"
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	default:
		return "internal_error"
	}
}

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction is returned when a call breaks turn, holding or betting
	// rules. The state is left exactly as it was before the call.
	ErrIllegalAction = errors.New("illegal action")

	// ErrInvariantViolation signals a caller-contract breach, such as asking
	// for manilhas before a vira exists or resolving a trick with a missing
	// card. No score is mutated when it is returned.
	ErrInvariantViolation = errors.New("invariant violation")
)

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

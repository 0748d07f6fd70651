package relay

import "errors"

// Domain errors for relay state handling.
var (
	// ErrInvalidState is returned when a relay string is not exactly N
	// characters of '0' and '1'.
	ErrInvalidState = errors.New("relay: invalid relay state")

	// ErrIndex is returned for a relay index outside 0..N-1.
	ErrIndex = errors.New("relay: index out of range")
)

package project

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/relaybank/internal/relay"
)

// Slave id bounds. 0 is the Modbus broadcast address and gets no reply.
const (
	MinSlaveID = 1
	MaxSlaveID = 255
)

// ParseSlaveID parses the slave id text field.
func ParseSlaveID(text string) (byte, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: slave id %q is not a number", ErrValidation, text)
	}
	if n < MinSlaveID || n > MaxSlaveID {
		return 0, fmt.Errorf("%w: slave id %d out of range %d..%d", ErrValidation, n, MinSlaveID, MaxSlaveID)
	}
	return byte(n), nil
}

// ValidatePort checks the interface field.
func ValidatePort(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: no interface selected", ErrValidation)
	}
	return nil
}

// ParseRelays parses a relay string, reporting ErrValidation on failure.
func ParseRelays(s string) (relay.State, error) {
	st, err := relay.Parse(s)
	if err != nil {
		return relay.State{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return st, nil
}

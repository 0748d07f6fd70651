package modbus

import "errors"

// Domain errors for the device session adapter.
var (
	// ErrConnect is returned when the serial transport cannot be opened.
	ErrConnect = errors.New("modbus: cannot open serial transport")

	// ErrTimeout is returned when an operation exceeds its bound.
	ErrTimeout = errors.New("modbus: operation timed out")

	// ErrIO is returned for transport failures other than timeouts.
	ErrIO = errors.New("modbus: i/o error")

	// ErrDevice is returned when the device sends a malformed or unexpected response.
	ErrDevice = errors.New("modbus: unexpected device response")

	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("modbus: session closed")
)

package modbus

import (
	"context"
	"time"
)

// Default link parameters for the R4D3B16 board.
const (
	DefaultBaudRate         = 9600
	DefaultDataBits         = 8
	DefaultParity           = "N"
	DefaultStopBits         = 1
	DefaultConnectTimeout   = 1 * time.Second
	DefaultOperationTimeout = 2 * time.Second
)

// Settings describes the serial framing and the time bounds of a session.
type Settings struct {
	BaudRate         int
	DataBits         int
	Parity           string // "N", "E" or "O"
	StopBits         int
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// DefaultSettings returns the fixed framing used by the relay board.
func DefaultSettings() Settings {
	return Settings{
		BaudRate:         DefaultBaudRate,
		DataBits:         DefaultDataBits,
		Parity:           DefaultParity,
		StopBits:         DefaultStopBits,
		ConnectTimeout:   DefaultConnectTimeout,
		OperationTimeout: DefaultOperationTimeout,
	}
}

// Opener opens device sessions.
//
// Implementations must bound Open by the connect timeout and return an error
// wrapping ErrConnect on failure.
type Opener interface {
	Open(ctx context.Context, port string, slaveID byte) (Session, error)
}

// Session is an open link to one slave. It is owned by exactly one device
// operation and must be closed when that operation ends.
//
// No method retries. Each call is one attempt bounded by the operation timeout.
type Session interface {
	// WriteRegister writes value to the holding register at address.
	WriteRegister(ctx context.Context, address, value uint16) error

	// ReadRegisters reads count consecutive holding registers starting at start.
	ReadRegisters(ctx context.Context, start, count uint16) ([]uint16, error)

	// Close releases the serial port.
	Close() error
}

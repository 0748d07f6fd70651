package modbus

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gridmodbus "github.com/grid-x/modbus"
)

// RTUOpener opens Modbus RTU sessions over a local serial port.
type RTUOpener struct {
	settings Settings
}

// NewRTUOpener creates an opener with the given framing and timeouts.
// Zero-valued fields fall back to the board defaults.
func NewRTUOpener(settings Settings) *RTUOpener {
	def := DefaultSettings()
	if settings.BaudRate <= 0 {
		settings.BaudRate = def.BaudRate
	}
	if settings.DataBits <= 0 {
		settings.DataBits = def.DataBits
	}
	if settings.Parity == "" {
		settings.Parity = def.Parity
	}
	if settings.StopBits <= 0 {
		settings.StopBits = def.StopBits
	}
	if settings.ConnectTimeout <= 0 {
		settings.ConnectTimeout = def.ConnectTimeout
	}
	if settings.OperationTimeout <= 0 {
		settings.OperationTimeout = def.OperationTimeout
	}
	return &RTUOpener{settings: settings}
}

// Settings returns the effective settings.
func (o *RTUOpener) Settings() Settings {
	return o.settings
}

// Open connects to port and addresses slaveID.
//
// The connect attempt is bounded by the connect timeout. Any failure is
// returned wrapped in ErrConnect.
func (o *RTUOpener) Open(ctx context.Context, port string, slaveID byte) (Session, error) {
	if port == "" {
		return nil, fmt.Errorf("%w: empty port name", ErrConnect)
	}

	handler := gridmodbus.NewRTUClientHandler(port)
	handler.BaudRate = o.settings.BaudRate
	handler.DataBits = o.settings.DataBits
	handler.Parity = strings.ToUpper(o.settings.Parity)
	handler.StopBits = o.settings.StopBits
	handler.SlaveID = slaveID
	handler.Timeout = o.settings.OperationTimeout

	connectCtx, cancel := context.WithTimeout(ctx, o.settings.ConnectTimeout)
	defer cancel()

	if err := handler.Connect(connectCtx); err != nil {
		_ = handler.Close() //nolint:errcheck // best effort cleanup on error path
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, port, err)
	}

	return &rtuSession{
		handler: handler,
		client:  gridmodbus.NewClient(handler),
		timeout: o.settings.OperationTimeout,
	}, nil
}

// rtuSession is a Session backed by a grid-x RTU client.
type rtuSession struct {
	handler *gridmodbus.RTUClientHandler
	client  gridmodbus.Client
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// WriteRegister implements Session.
func (s *rtuSession) WriteRegister(ctx context.Context, address, value uint16) error {
	if s.isClosed() {
		return ErrSessionClosed
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.WriteSingleRegister(opCtx, address, value); err != nil {
		return classify(opCtx, fmt.Sprintf("write register %d", address), err)
	}
	return nil
}

// ReadRegisters implements Session.
func (s *rtuSession) ReadRegisters(ctx context.Context, start, count uint16) ([]uint16, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.ReadHoldingRegisters(opCtx, start, count)
	if err != nil {
		return nil, classify(opCtx, fmt.Sprintf("read %d registers at %d", count, start), err)
	}
	return decodeRegisters(raw, count)
}

// Close implements Session. Calling it more than once is harmless.
func (s *rtuSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.handler.Close(); err != nil {
		return fmt.Errorf("%w: closing port: %w", ErrIO, err)
	}
	return nil
}

func (s *rtuSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// decodeRegisters converts a big-endian register block into values.
// A block of the wrong size means the device answered something else.
func decodeRegisters(raw []byte, count uint16) ([]uint16, error) {
	if len(raw) != int(count)*2 {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrDevice, int(count)*2, len(raw))
	}
	values := make([]uint16, count)
	for i := range values {
		values[i] = binary.BigEndian.Uint16(raw[i*2:])
	}
	return values, nil
}

// timeoutError is satisfied by net and serial errors that report a timeout.
type timeoutError interface {
	Timeout() bool
}

// classify maps a transport error to ErrTimeout or ErrIO.
func classify(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	}
	var te timeoutError
	if errors.As(err, &te) && te.Timeout() {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

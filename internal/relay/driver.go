package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/relaybank/internal/bridges/modbus"
)

// DefaultInterOpDelay is the pause after each write of a bulk apply.
const DefaultInterOpDelay = 5 * time.Millisecond

// Logger defines the logging interface used by the driver.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Target identifies the board to talk to.
type Target struct {
	Port    string
	SlaveID byte
}

// DriverOptions configures a Driver.
type DriverOptions struct {
	// Opener opens device sessions. Required.
	Opener modbus.Opener

	// InterOpDelay is slept after every write of Apply.
	// Zero means DefaultInterOpDelay; use a negative value for no delay.
	InterOpDelay time.Duration

	// Logger is optional.
	Logger Logger
}

// Driver runs device operations against the relay bank. It holds no session
// between calls and is not safe for concurrent use against the same port;
// the controller serialises calls.
type Driver struct {
	opener modbus.Opener
	delay  time.Duration
	logger Logger
	sleep  func(time.Duration)
}

// NewDriver creates a Driver.
func NewDriver(opts DriverOptions) *Driver {
	delay := opts.InterOpDelay
	switch {
	case delay == 0:
		delay = DefaultInterOpDelay
	case delay < 0:
		delay = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Driver{
		opener: opts.Opener,
		delay:  delay,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Apply writes state to the board in two phases, OFF then ON.
//
// The first failing write aborts the call. Writes already issued stay applied.
func (d *Driver) Apply(ctx context.Context, t Target, state State) error {
	return d.withSession(ctx, t, "set", func(sess modbus.Session) error {
		return d.execute(ctx, sess, Plan(state[:]))
	})
}

// Read returns the relay state reported by the board.
func (d *Driver) Read(ctx context.Context, t Target) (State, error) {
	var state State
	err := d.withSession(ctx, t, "get", func(sess modbus.Session) error {
		values, err := sess.ReadRegisters(ctx, firstRegister, N)
		if err != nil {
			return fmt.Errorf("reading relay registers: %w", err)
		}
		if len(values) != N {
			return fmt.Errorf("%w: read %d registers, want %d", modbus.ErrDevice, len(values), N)
		}
		for i, v := range values {
			state[i] = Decode(v)
		}
		return nil
	})
	if err != nil {
		return State{}, err
	}
	return state, nil
}

// WriteRelay switches a single relay without touching the others.
func (d *Driver) WriteRelay(ctx context.Context, t Target, index int, on bool) error {
	if err := CheckIndex(index); err != nil {
		return err
	}
	return d.withSession(ctx, t, "write", func(sess modbus.Session) error {
		if err := sess.WriteRegister(ctx, Address(index), Code(on)); err != nil {
			return fmt.Errorf("writing relay %d: %w", index+1, err)
		}
		return nil
	})
}

// execute issues cmds in order, pausing after each, and stops at the first error.
func (d *Driver) execute(ctx context.Context, sess modbus.Session, cmds []Command) error {
	for _, cmd := range cmds {
		if err := sess.WriteRegister(ctx, cmd.Address, cmd.Value); err != nil {
			return fmt.Errorf("writing register %d: %w", cmd.Address, err)
		}
		if d.delay > 0 {
			d.sleep(d.delay)
		}
	}
	return nil
}

// withSession opens a session for one operation and always closes it.
func (d *Driver) withSession(ctx context.Context, t Target, op string, fn func(modbus.Session) error) error {
	if d.opener == nil {
		return fmt.Errorf("%w: no opener configured", modbus.ErrConnect)
	}

	start := time.Now()
	sess, err := d.opener.Open(ctx, t.Port, t.SlaveID)
	if err != nil {
		d.logger.Warn("device open failed", "op", op, "port", t.Port, "slave", t.SlaveID, "error", err)
		return err
	}

	opErr := fn(sess)
	if cerr := sess.Close(); cerr != nil {
		d.logger.Warn("closing device session", "op", op, "port", t.Port, "error", cerr)
	}

	if opErr != nil {
		d.logger.Warn("device operation failed", "op", op, "port", t.Port, "slave", t.SlaveID, "error", opErr)
		return opErr
	}
	d.logger.Debug("device operation complete", "op", op, "port", t.Port, "slave", t.SlaveID,
		"duration", time.Since(start))
	return nil
}

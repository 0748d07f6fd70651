package modbus

import (
	"context"
	"fmt"
	"sync"
)

// Register codes understood by the simulated board. Writes use 0x0100/0x0200
// while reads report 1/0, matching the real R4D3B16 firmware.
const (
	simWriteOn  uint16 = 0x0100
	simWriteOff uint16 = 0x0200
	simReadOn   uint16 = 1
	simReadOff  uint16 = 0
)

// Write is one register write seen by the Simulator.
type Write struct {
	Address uint16
	Value   uint16
}

// Simulator is an in-memory relay board implementing Opener and PortLister.
//
// It answers only the configured slave id; requests to any other slave time
// out like a silent bus would. Faults can be injected per write attempt.
type Simulator struct {
	mu sync.Mutex

	slaveID   byte
	ports     []string
	registers map[uint16]uint16

	attempts  []Write // every write attempt, including failed ones
	opens     int
	openCount int // sessions currently open

	openErr    error
	readErr    error
	failWrite  int // 1-based attempt number to fail, 0 = never
	failErr    error
	attemptNum int
}

// NewSimulator creates a board that answers slaveID and advertises ports.
func NewSimulator(slaveID byte, ports ...string) *Simulator {
	return &Simulator{
		slaveID:   slaveID,
		ports:     ports,
		registers: make(map[uint16]uint16),
	}
}

// Open implements Opener.
func (s *Simulator) Open(_ context.Context, port string, slaveID byte) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, port, s.openErr)
	}
	if port == "" {
		return nil, fmt.Errorf("%w: empty port name", ErrConnect)
	}
	if len(s.ports) > 0 && !contains(s.ports, port) {
		return nil, fmt.Errorf("%w: %s: no such port", ErrConnect, port)
	}

	s.opens++
	s.openCount++
	return &simSession{sim: s, slaveID: slaveID}, nil
}

// ListPorts implements PortLister.
func (s *Simulator) ListPorts() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ports...), nil
}

// SetPorts replaces the advertised port list.
func (s *Simulator) SetPorts(ports ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports = ports
}

// FailOpen makes every Open fail with err. Pass nil to clear.
func (s *Simulator) FailOpen(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErr = err
}

// FailRead makes every read fail with err. Pass nil to clear.
func (s *Simulator) FailRead(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailWrite makes the n-th write attempt from now (1-based) fail with err.
// The failing write is recorded as attempted but does not change any register.
func (s *Simulator) FailWrite(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = n
	s.failErr = err
	s.attemptNum = 0
}

// SetRegister seeds a register value.
func (s *Simulator) SetRegister(address, value uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers[address] = value
}

// Register returns the current value of a register.
func (s *Simulator) Register(address uint16) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registers[address]
}

// Attempts returns every write attempt in order.
func (s *Simulator) Attempts() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.attempts...)
}

// ResetAttempts clears the write log.
func (s *Simulator) ResetAttempts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = nil
}

// Opens returns how many sessions have been opened in total.
func (s *Simulator) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

// OpenSessions returns how many sessions are currently open.
func (s *Simulator) OpenSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openCount
}

func (s *Simulator) write(slaveID byte, address, value uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = append(s.attempts, Write{Address: address, Value: value})
	s.attemptNum++

	if s.failWrite > 0 && s.attemptNum == s.failWrite {
		return fmt.Errorf("write register %d: %w", address, s.failErr)
	}
	if slaveID != s.slaveID {
		return fmt.Errorf("%w: write register %d: slave %d not responding", ErrTimeout, address, slaveID)
	}

	switch value {
	case simWriteOn:
		s.registers[address] = simReadOn
	case simWriteOff:
		s.registers[address] = simReadOff
	default:
		return fmt.Errorf("%w: write register %d: illegal data value 0x%04X", ErrDevice, address, value)
	}
	return nil
}

func (s *Simulator) read(slaveID byte, start, count uint16) ([]uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readErr != nil {
		return nil, fmt.Errorf("read %d registers at %d: %w", count, start, s.readErr)
	}
	if slaveID != s.slaveID {
		return nil, fmt.Errorf("%w: read registers: slave %d not responding", ErrTimeout, slaveID)
	}

	values := make([]uint16, count)
	for i := range values {
		values[i] = s.registers[start+uint16(i)]
	}
	return values, nil
}

func (s *Simulator) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openCount--
}

// simSession is a Session on the Simulator.
type simSession struct {
	sim     *Simulator
	slaveID byte
	closed  bool
}

func (ss *simSession) WriteRegister(ctx context.Context, address, value uint16) error {
	if ss.closed {
		return ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return classify(ctx, "write register", err)
	}
	return ss.sim.write(ss.slaveID, address, value)
}

func (ss *simSession) ReadRegisters(ctx context.Context, start, count uint16) ([]uint16, error) {
	if ss.closed {
		return nil, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, classify(ctx, "read registers", err)
	}
	return ss.sim.read(ss.slaveID, start, count)
}

func (ss *simSession) Close() error {
	if ss.closed {
		return nil
	}
	ss.closed = true
	ss.sim.release()
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

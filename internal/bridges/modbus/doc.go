// Package modbus implements the device session adapter for the relay bank.
//
// A Session is a short-lived Modbus RTU link to one slave on one serial port.
// It exposes exactly two operations, each a single attempt bounded by the
// operation timeout:
//
//   - WriteRegister: write one holding register (function 0x06)
//   - ReadRegisters: read a block of holding registers (function 0x03)
//
// Sessions are never pooled. Callers open one per device operation and close
// it when the operation ends, so no serial handle outlives a SET, GET or
// single-relay write.
//
// # Framing
//
// The R4D3B16 board talks 9600 baud, 8 data bits, no parity, 1 stop bit.
// RTU framing and CRC are handled by github.com/grid-x/modbus.
//
// # Errors
//
// Every failure is classified into one sentinel so callers can react with
// errors.Is:
//
//	ErrConnect  the serial port could not be opened
//	ErrTimeout  the device did not answer within the bound
//	ErrIO       any other transport failure
//	ErrDevice   the device answered with something unexpected
//
// # Simulator
//
// Simulator is an in-memory board with the same contract, used by tests and
// by the --simulate flag.
package modbus

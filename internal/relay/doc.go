// Package relay holds the relay vector of the R4D3B16 bank and the register
// protocol used to drive it.
//
// Relay index i (0-based) lives in holding register i+1. Relays are switched
// by writing OnCode (0x0100) or OffCode (0x0200) to that register, but a read
// reports 1 for ON and anything else for OFF. The asymmetry is how the board
// behaves and is kept as-is.
//
// A Driver performs the three device operations on top of a modbus.Opener:
//
//   - Apply: two-phase bulk write. Every OFF is written before every ON,
//     ascending within each phase, with a short pause after each write. The
//     first failure aborts the call and nothing already written is undone.
//   - Read: one bulk read of all 16 registers.
//   - WriteRelay: a single register write used in realtime mode.
//
// Each call opens its own session and closes it before returning.
package relay

package relay

// Register values written to switch a relay.
const (
	OnCode  uint16 = 0x0100
	OffCode uint16 = 0x0200
)

// readOn is the register value a read reports for an energised relay.
const readOn uint16 = 1

// firstRegister is the address of relay index 0. Register 0 is unused.
const firstRegister uint16 = 1

// Command is a single register write.
type Command struct {
	Address uint16
	Value   uint16
}

// Address returns the holding register of relay index i.
func Address(i int) uint16 {
	return uint16(i) + firstRegister
}

// Code returns the value to write for the desired relay position.
func Code(on bool) uint16 {
	if on {
		return OnCode
	}
	return OffCode
}

// Decode interprets a register value read back from the board.
// Only exactly 1 means ON.
func Decode(v uint16) bool {
	return v == readOn
}

// Plan orders the writes that bring the bank to bits: every OFF first, then
// every ON, ascending index within each phase.
func Plan(bits []bool) []Command {
	cmds := make([]Command, 0, len(bits))
	for _, phase := range []bool{false, true} {
		for i, on := range bits {
			if on == phase {
				cmds = append(cmds, Command{Address: Address(i), Value: Code(on)})
			}
		}
	}
	return cmds
}

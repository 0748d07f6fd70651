package relay

import (
	"fmt"
	"strings"
)

// N is the number of relays on the bank.
const N = 16

// State is the on/off vector of the bank. Index i is physical relay i+1.
type State [N]bool

// Parse converts an N-character '0'/'1' string into a State.
func Parse(s string) (State, error) {
	var st State
	if err := Validate(s); err != nil {
		return st, err
	}
	for i := 0; i < N; i++ {
		st[i] = s[i] == '1'
	}
	return st, nil
}

// Validate reports whether s is a well-formed relay string. Both the length
// and the character set must be right; the empty string is rejected.
func Validate(s string) error {
	if len(s) != N {
		return fmt.Errorf("%w: want %d characters, got %d", ErrInvalidState, N, len(s))
	}
	if i := strings.IndexFunc(s, func(r rune) bool { return r != '0' && r != '1' }); i >= 0 {
		return fmt.Errorf("%w: character %q at position %d", ErrInvalidState, s[i], i)
	}
	return nil
}

// String renders the state as N characters of '0' and '1'.
func (s State) String() string {
	var b strings.Builder
	b.Grow(N)
	for _, on := range s {
		if on {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// All returns a state with every relay set to on.
func All(on bool) State {
	var s State
	for i := range s {
		s[i] = on
	}
	return s
}

// Mask packs the state into an integer, relay 1 in bit 0.
func (s State) Mask() uint16 {
	var m uint16
	for i, on := range s {
		if on {
			m |= 1 << i
		}
	}
	return m
}

// CheckIndex returns ErrIndex if i is not a relay index.
func CheckIndex(i int) error {
	if i < 0 || i >= N {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	return nil
}

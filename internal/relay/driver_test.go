package relay

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/relaybank/internal/bridges/modbus"
)

const testPort = "/dev/ttyUSB0"

func newTestDriver(sim *modbus.Simulator) (*Driver, *[]time.Duration) {
	d := NewDriver(DriverOptions{Opener: sim})
	slept := []time.Duration{}
	d.sleep = func(dur time.Duration) { slept = append(slept, dur) }
	return d, &slept
}

func target() Target {
	return Target{Port: testPort, SlaveID: 1}
}

func TestDriver_RoundTrip(t *testing.T) {
	sim := modbus.NewSimulator(1, testPort)
	d, _ := newTestDriver(sim)
	ctx := context.Background()

	states := []State{All(false), All(true)}
	alt, err := Parse("0101010101010101")
	require.NoError(t, err)
	states = append(states, alt)

	rng := rand.New(rand.NewSource(16))
	for i := 0; i < 20; i++ {
		var st State
		for j := range st {
			st[j] = rng.Intn(2) == 1
		}
		states = append(states, st)
	}

	for _, want := range states {
		require.NoError(t, d.Apply(ctx, target(), want))
		got, err := d.Read(ctx, target())
		require.NoError(t, err)
		assert.Equal(t, want, got, "round trip of %s", want)
	}
	assert.Equal(t, 0, sim.OpenSessions())
}

func TestDriver_ExecuteOrdering(t *testing.T) {
	sim := modbus.NewSimulator(1, testPort)
	d, slept := newTestDriver(sim)
	ctx := context.Background()

	sess, err := sim.Open(ctx, testPort, 1)
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, d.execute(ctx, sess, Plan([]bool{true, false, true})))

	assert.Equal(t, []modbus.Write{
		{Address: 2, Value: OffCode},
		{Address: 1, Value: OnCode},
		{Address: 3, Value: OnCode},
	}, sim.Attempts())
	assert.Equal(t, []time.Duration{DefaultInterOpDelay, DefaultInterOpDelay, DefaultInterOpDelay}, *slept)
}

func TestDriver_ApplyOpensOneSession(t *testing.T) {
	sim := modbus.NewSimulator(1, testPort)
	d, slept := newTestDriver(sim)

	require.NoError(t, d.Apply(context.Background(), target(), All(true)))
	assert.Equal(t, 1, sim.Opens())
	assert.Equal(t, 0, sim.OpenSessions())
	assert.Len(t, sim.Attempts(), N)
	assert.Len(t, *slept, N)
}

func TestDriver_ApplyAbortsOnFirstFailure(t *testing.T) {
	sim := modbus.NewSimulator(1, testPort)
	for i := 0; i < N; i++ {
		sim.SetRegister(Address(i), 1)
	}
	d, _ := newTestDriver(sim)

	// OFF phase visits registers 3..16, then ON phase 1 and 2.
	st, err := Parse("1100000000000000")
	require.NoError(t, err)
	sim.FailWrite(3, modbus.ErrTimeout)

	err = d.Apply(context.Background(), target(), st)
	require.Error(t, err)
	assert.ErrorIs(t, err, modbus.ErrTimeout)

	attempts := sim.Attempts()
	require.Len(t, attempts, 3)
	assert.Equal(t, uint16(5), attempts[2].Address)

	// Issued writes stay applied, nothing later was attempted.
	assert.Equal(t, uint16(0), sim.Register(3))
	assert.Equal(t, uint16(0), sim.Register(4))
	assert.Equal(t, uint16(1), sim.Register(5))
	assert.Equal(t, uint16(1), sim.Register(6))
	assert.Equal(t, 0, sim.OpenSessions())
}

func TestDriver_OpenFailure(t *testing.T) {
	sim := modbus.NewSimulator(1, testPort)
	sim.FailOpen(errors.New("device busy"))
	d, _ := newTestDriver(sim)
	ctx := context.Background()

	assert.ErrorIs(t, d.Apply(ctx, target(), All(true)), modbus.ErrConnect)
	_, err := d.Read(ctx, target())
	assert.ErrorIs(t, err, modbus.ErrConnect)
	assert.ErrorIs(t, d.WriteRelay(ctx, target(), 0, true), modbus.ErrConnect)
	assert.Empty(t, sim.Attempts())
}

func TestDriver_NoOpener(t *testing.T) {
	d := NewDriver(DriverOptions{})
	assert.ErrorIs(t, d.Apply(context.Background(), target(), All(false)), modbus.ErrConnect)
}

func TestDriver_Read(t *testing.T) {
	sim := modbus.NewSimulator(1, testPort)
	sim.SetRegister(1, 1)
	sim.SetRegister(2, 0x0100) // not exactly 1, reads as OFF
	sim.SetRegister(16, 1)
	d, _ := newTestDriver(sim)

	st, err := d.Read(context.Background(), target())
	require.NoError(t, err)
	assert.Equal(t, "1000000000000001", st.String())
}

func TestDriver_ReadFailure(t *testing.T) {
	sim := modbus.NewSimulator(1, testPort)
	sim.FailRead(modbus.ErrIO)
	d, _ := newTestDriver(sim)

	st, err := d.Read(context.Background(), target())
	assert.ErrorIs(t, err, modbus.ErrIO)
	assert.Equal(t, State{}, st)
}

func TestDriver_ReadWrongSlave(t *testing.T) {
	sim := modbus.NewSimulator(1, testPort)
	d, _ := newTestDriver(sim)

	_, err := d.Read(context.Background(), Target{Port: testPort, SlaveID: 2})
	assert.ErrorIs(t, err, modbus.ErrTimeout)
}

func TestDriver_WriteRelay(t *testing.T) {
	sim := modbus.NewSimulator(1, testPort)
	d, slept := newTestDriver(sim)
	ctx := context.Background()

	require.NoError(t, d.WriteRelay(ctx, target(), 4, true))
	assert.Equal(t, []modbus.Write{{Address: 5, Value: OnCode}}, sim.Attempts())
	assert.Equal(t, uint16(1), sim.Register(5))
	assert.Empty(t, *slept)

	require.NoError(t, d.WriteRelay(ctx, target(), 4, false))
	assert.Equal(t, uint16(0), sim.Register(5))

	assert.ErrorIs(t, d.WriteRelay(ctx, target(), N, true), ErrIndex)
}

func TestNewDriver_Delay(t *testing.T) {
	assert.Equal(t, DefaultInterOpDelay, NewDriver(DriverOptions{}).delay)
	assert.Equal(t, time.Duration(0), NewDriver(DriverOptions{InterOpDelay: -1}).delay)
	assert.Equal(t, 10*time.Millisecond, NewDriver(DriverOptions{InterOpDelay: 10 * time.Millisecond}).delay)
}

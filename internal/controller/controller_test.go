package controller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/relaybank/internal/bridges/modbus"
	"github.com/nerrad567/relaybank/internal/journal"
	"github.com/nerrad567/relaybank/internal/project"
	"github.com/nerrad567/relaybank/internal/relay"
)

// MockRenderer records the latest render command of each kind.
type MockRenderer struct {
	mu       sync.Mutex
	relays   [relay.N]Indicator
	controls map[Control]ControlState
	ports    []string
	selected string
	presets  PresetList
	realtime bool
	project  ProjectView
	renders  int
}

func NewMockRenderer() *MockRenderer {
	return &MockRenderer{controls: make(map[Control]ControlState)}
}

func (m *MockRenderer) RenderRelay(index int, ind Indicator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relays[index] = ind
	m.renders++
}

func (m *MockRenderer) RenderControl(c Control, s ControlState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controls[c] = s
}

func (m *MockRenderer) RenderPorts(ports []string, selected string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ports = ports
	m.selected = selected
}

func (m *MockRenderer) RenderPresets(list PresetList) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets = list
}

func (m *MockRenderer) RenderRealtime(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.realtime = on
}

func (m *MockRenderer) RenderProject(v ProjectView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.project = v
}

func (m *MockRenderer) Control(c Control) ControlState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controls[c]
}

func (m *MockRenderer) Relay(i int) Indicator {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.relays[i]
}

// MockJournal records entries and can be told to fail.
type MockJournal struct {
	entries []journal.Entry
	err     error
}

func (m *MockJournal) Record(_ context.Context, e *journal.Entry) error {
	m.entries = append(m.entries, *e)
	return m.err
}

// MockHistory records relay state writes.
type MockHistory struct {
	sources []string
	states  []relay.State
}

func (m *MockHistory) WriteRelayState(_ string, _ byte, source string, state relay.State) {
	m.sources = append(m.sources, source)
	m.states = append(m.states, state)
}

type fixture struct {
	c       *Controller
	sim     *modbus.Simulator
	render  *MockRenderer
	journal *MockJournal
	history *MockHistory
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sim := modbus.NewSimulator(1, "COM1", "COM3")
	render := NewMockRenderer()
	jr := &MockJournal{}
	hist := &MockHistory{}

	proj := project.New()
	proj.Interface = "COM3"

	c := New(Options{
		Device:   relay.NewDriver(relay.DriverOptions{Opener: sim, InterOpDelay: -1}),
		Ports:    sim,
		Renderer: render,
		Project:  proj,
		Journal:  jr,
		History:  hist,
	})
	return &fixture{c: c, sim: sim, render: render, journal: jr, history: hist, ctx: context.Background()}
}

func (f *fixture) send(events ...Event) {
	for _, ev := range events {
		f.c.handle(f.ctx, ev)
	}
}

func mustState(t *testing.T, s string) relay.State {
	t.Helper()
	st, err := relay.Parse(s)
	require.NoError(t, err)
	return st
}

func (f *fixture) boardState(t *testing.T) relay.State {
	t.Helper()
	var st relay.State
	for i := range st {
		st[i] = relay.Decode(f.sim.Register(relay.Address(i)))
	}
	return st
}

func TestSetAllGetAll_RoundTrip(t *testing.T) {
	f := newFixture(t)
	want := mustState(t, "1001000000000110")

	for i, on := range want {
		if on {
			f.send(ToggleRelay{Index: i, On: true})
		}
	}
	assert.Empty(t, f.sim.Attempts(), "no device writes outside realtime mode")

	f.send(SetAll{})
	assert.Equal(t, ControlNormal, f.render.Control(ControlSet))
	assert.Equal(t, want, f.boardState(t))

	f.send(AllOff{})
	assert.Equal(t, relay.State{}, f.c.proj.State)

	f.send(GetAll{})
	assert.Equal(t, ControlNormal, f.render.Control(ControlGet))
	assert.Equal(t, want, f.c.proj.State)
	assert.Equal(t, IndicatorOn, f.render.Relay(0))
	assert.Equal(t, IndicatorOff, f.render.Relay(1))
	assert.Equal(t, 0, f.sim.OpenSessions())
}

func TestSetAll_Validation(t *testing.T) {
	tests := []struct {
		name  string
		setup []Event
	}{
		{"empty interface", []Event{SetInterface{Name: ""}}},
		{"non numeric slave", []Event{SetSlaveID{Text: "abc"}}},
		{"slave zero", []Event{SetSlaveID{Text: "0"}}},
		{"slave too big", []Event{SetSlaveID{Text: "256"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.send(tt.setup...)

			f.send(SetAll{})
			assert.Equal(t, ControlError, f.render.Control(ControlSet))

			f.send(GetAll{})
			assert.Equal(t, ControlError, f.render.Control(ControlGet))

			assert.Equal(t, 0, f.sim.Opens())
			assert.Empty(t, f.journal.entries)
		})
	}
}

func TestSetAll_DeviceFailure(t *testing.T) {
	f := newFixture(t)
	f.sim.FailWrite(2, modbus.ErrTimeout)

	f.send(AllOn{}, SetAll{})
	assert.Equal(t, ControlError, f.render.Control(ControlSet))
	assert.Len(t, f.sim.Attempts(), 2)

	require.Len(t, f.journal.entries, 1)
	assert.Equal(t, journal.KindSet, f.journal.entries[0].Kind)
	assert.Contains(t, f.journal.entries[0].Error, "timed out")
	assert.Empty(t, f.history.sources)

	// A later successful SET clears the marker.
	f.send(SetAll{})
	assert.Equal(t, ControlNormal, f.render.Control(ControlSet))
}

func TestGetAll_FailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.send(AllOn{})
	f.sim.FailRead(modbus.ErrIO)

	f.send(GetAll{})
	assert.Equal(t, ControlError, f.render.Control(ControlGet))
	assert.Equal(t, relay.All(true), f.c.proj.State)
}

func TestGetAll_WrongSlaveTimesOut(t *testing.T) {
	f := newFixture(t)
	f.send(SetSlaveID{Text: "7"}, GetAll{})
	assert.Equal(t, ControlError, f.render.Control(ControlGet))
	assert.Equal(t, byte(7), f.c.proj.SlaveID)
}

func TestRealtime(t *testing.T) {
	f := newFixture(t)
	f.send(ToggleRelay{Index: 0, On: true})

	f.send(ToggleRealtime{})
	assert.True(t, f.render.realtime)
	assert.Len(t, f.sim.Attempts(), relay.N, "enabling realtime reconciles the board")
	assert.Equal(t, f.c.proj.State, f.boardState(t))

	f.sim.ResetAttempts()
	f.send(ToggleRelay{Index: 2, On: true})
	assert.Equal(t, []modbus.Write{{Address: 3, Value: relay.OnCode}}, f.sim.Attempts())
	assert.Equal(t, IndicatorOn, f.render.Relay(2))

	f.sim.ResetAttempts()
	f.send(AllOff{})
	assert.Len(t, f.sim.Attempts(), relay.N)
	assert.Equal(t, relay.State{}, f.boardState(t))

	f.send(ToggleRealtime{})
	assert.False(t, f.render.realtime)
	f.sim.ResetAttempts()
	f.send(ToggleRelay{Index: 5, On: true})
	assert.Empty(t, f.sim.Attempts())
}

func TestRealtime_WriteFailureMarksRelay(t *testing.T) {
	f := newFixture(t)
	f.send(ToggleRealtime{})
	f.sim.FailWrite(1, modbus.ErrIO)

	f.send(ToggleRelay{Index: 4, On: true})
	assert.Equal(t, IndicatorError, f.render.Relay(4))
	assert.True(t, f.c.proj.State[4], "in-memory bit is not rolled back")

	f.send(SetInterface{Name: ""}, ToggleRelay{Index: 6, On: true})
	assert.Equal(t, IndicatorError, f.render.Relay(6))
}

func TestToggleRelay_BadIndex(t *testing.T) {
	f := newFixture(t)
	f.send(ToggleRelay{Index: relay.N, On: true}, ToggleRelay{Index: -1, On: true})
	assert.Equal(t, relay.State{}, f.c.proj.State)
}

func TestAddPreset_Dedup(t *testing.T) {
	f := newFixture(t)
	s1 := mustState(t, "1100000000000000")

	f.c.proj.State = s1
	f.send(AddPreset{Name: "x"})
	f.c.proj.State = mustState(t, "0011000000000000")
	f.send(AddPreset{Name: "x"})

	require.Len(t, f.c.proj.Presets, 1)
	assert.Equal(t, s1, f.c.proj.Presets[0].State)
	assert.Equal(t, project.Selected(0), f.c.proj.Selection)
	assert.Equal(t, []string{"x"}, f.render.presets.Names)
	assert.Equal(t, project.Selected(0), f.render.presets.Selection)
}

func TestAddPreset_EmptyName(t *testing.T) {
	f := newFixture(t)
	f.send(AddPreset{Name: ""})
	assert.Equal(t, ControlError, f.render.Control(ControlPreset))
	assert.Empty(t, f.c.proj.Presets)
}

func TestApplyPreset_InvalidSelection(t *testing.T) {
	f := newFixture(t)
	current := mustState(t, "1010101010101010")
	f.c.proj.State = current

	// No selection.
	f.send(ApplyPreset{})
	assert.Equal(t, ControlError, f.render.Control(ControlApply))
	assert.Equal(t, current, f.c.proj.State)

	// Selection beyond the list after a removal.
	f.send(AddPreset{Name: "a"}, AddPreset{Name: "b"}, RemovePreset{Index: 0})
	require.Equal(t, project.Selected(1), f.c.proj.Selection)
	f.c.proj.State = current
	f.send(ApplyPreset{})
	assert.Equal(t, ControlError, f.render.Control(ControlApply))
	assert.Equal(t, current, f.c.proj.State)
}

func TestSelectAndApplyPreset(t *testing.T) {
	f := newFixture(t)
	left := mustState(t, "1111111100000000")

	f.c.proj.State = left
	f.send(AddPreset{Name: "left"})
	f.send(AllOff{}, AddPreset{Name: "off"})

	f.send(SelectPreset{Index: 9})
	assert.Equal(t, ControlError, f.render.Control(ControlApply))
	assert.Equal(t, project.Selected(1), f.c.proj.Selection)

	f.send(SelectPreset{Index: 0}, ApplyPreset{})
	assert.Equal(t, ControlNormal, f.render.Control(ControlApply))
	assert.Equal(t, left, f.c.proj.State)
	assert.Equal(t, IndicatorOn, f.render.Relay(0))
	assert.Equal(t, IndicatorOff, f.render.Relay(15))
	assert.Empty(t, f.sim.Attempts())

	// In realtime mode the preset goes straight to the board.
	f.send(ToggleRealtime{}, SelectPreset{Index: 1}, ApplyPreset{})
	assert.Equal(t, relay.State{}, f.boardState(t))
}

func TestRemovePreset_OutOfRange(t *testing.T) {
	f := newFixture(t)
	f.send(RemovePreset{Index: 0})
	assert.Equal(t, ControlError, f.render.Control(ControlPreset))
}

func TestSaveOpenProject(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.json")

	f.send(
		ToggleRelay{Index: 1, On: true},
		AddPreset{Name: "two"},
		SetSlaveID{Text: "12"},
		SetInterface{Name: "COM1"},
		SaveProject{Path: path},
	)
	assert.Equal(t, ControlNormal, f.render.Control(ControlSave))

	g := newFixture(t)
	g.send(OpenProject{Path: path})
	assert.Equal(t, ControlNormal, g.render.Control(ControlOpen))
	assert.Equal(t, "COM1", g.c.proj.Interface)
	assert.Equal(t, byte(12), g.c.proj.SlaveID)
	assert.Equal(t, []string{"two"}, g.render.presets.Names)
	assert.Equal(t, IndicatorOn, g.render.Relay(1))
	assert.Equal(t, ProjectView{Interface: "COM1", SlaveID: "12"}, g.render.project)
}

func TestOpenProject_MalformedKeepsProject(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"relay_state":"01","slave_id":1}`), 0o644))

	f.send(ToggleRelay{Index: 0, On: true}, OpenProject{Path: path})
	assert.Equal(t, ControlError, f.render.Control(ControlOpen))
	assert.True(t, f.c.proj.State[0])
	assert.Equal(t, "COM3", f.c.proj.Interface)
}

func TestSaveProject_Failure(t *testing.T) {
	f := newFixture(t)
	f.send(SaveProject{Path: filepath.Join(t.TempDir(), "missing", "p.json")})
	assert.Equal(t, ControlError, f.render.Control(ControlSave))
}

func TestPresetFiles(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "evening.txt")
	evening := mustState(t, "0000000011111111")

	f.c.proj.State = evening
	f.send(SavePresetFile{Path: path})
	assert.Equal(t, ControlNormal, f.render.Control(ControlSave))

	f.send(AllOff{}, LoadPresetFile{Path: path})
	assert.Equal(t, evening, f.c.proj.State)
	assert.Equal(t, []string{"evening"}, f.render.presets.Names)
	assert.Equal(t, project.Selected(0), f.c.proj.Selection)

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("0101"), 0o644))
	f.send(LoadPresetFile{Path: bad})
	assert.Equal(t, ControlError, f.render.Control(ControlApply))
	assert.Len(t, f.c.proj.Presets, 1)
}

func TestLoadPresetFile_FileContentsWin(t *testing.T) {
	f := newFixture(t)
	first := filepath.Join(t.TempDir(), "scene.txt")
	second := filepath.Join(t.TempDir(), "scene.txt")
	require.NoError(t, os.WriteFile(first, []byte("1111111111111111"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("0000000000000000"), 0o644))

	f.send(LoadPresetFile{Path: first})
	assert.Equal(t, relay.All(true), f.c.proj.State)

	// Same base name from another directory.
	f.send(LoadPresetFile{Path: second})
	assert.Equal(t, ControlNormal, f.render.Control(ControlApply))
	assert.Equal(t, relay.All(false), f.c.proj.State)
	require.Len(t, f.c.proj.Presets, 1)
	assert.Equal(t, relay.All(false), f.c.proj.Presets[0].State)

	// Edited on disk since the last load.
	edited := mustState(t, "1010101010101010")
	require.NoError(t, os.WriteFile(first, []byte("1010101010101010"), 0o644))
	f.send(LoadPresetFile{Path: first})
	assert.Equal(t, edited, f.c.proj.State)
	assert.Equal(t, edited, f.c.proj.Presets[0].State)
	assert.Equal(t, []string{"scene"}, f.render.presets.Names)
}

func TestSettingsRenderProject(t *testing.T) {
	f := newFixture(t)

	f.send(SetInterface{Name: "COM4"})
	assert.Equal(t, "COM4", f.render.project.Interface)
	assert.Equal(t, "COM4", f.render.selected)

	f.send(SetSlaveID{Text: "12"})
	assert.Equal(t, "12", f.render.project.SlaveID)
	assert.Equal(t, "COM4", f.render.project.Interface)

	// Unparsable text is still echoed back.
	f.send(SetSlaveID{Text: "abc"})
	assert.Equal(t, "abc", f.render.project.SlaveID)
}

func TestRefreshPorts(t *testing.T) {
	f := newFixture(t)

	f.send(RefreshPorts{})
	assert.Equal(t, []string{"COM1", "COM3"}, f.render.ports)
	assert.Equal(t, "COM3", f.render.selected)

	f.send(SetInterface{Name: "COM9"}, RefreshPorts{})
	assert.Equal(t, "COM1", f.c.proj.Interface)
	assert.Equal(t, "COM1", f.render.selected)

	f.sim.SetPorts()
	f.send(RefreshPorts{})
	assert.Equal(t, "COM1", f.c.proj.Interface)
	assert.Empty(t, f.render.ports)
}

func TestJournalAndHistory(t *testing.T) {
	f := newFixture(t)
	f.journal.err = errors.New("disk full")

	f.send(AllOn{}, SetAll{}, GetAll{}, ToggleRealtime{}, ToggleRelay{Index: 0, On: false})

	kinds := make([]string, 0, len(f.journal.entries))
	for _, e := range f.journal.entries {
		kinds = append(kinds, e.Kind)
		assert.Equal(t, "COM3", e.Port)
		assert.Empty(t, e.Error)
	}
	assert.Equal(t, []string{journal.KindSet, journal.KindGet, journal.KindSet, journal.KindWrite}, kinds)
	assert.Equal(t, "1111111111111111", f.journal.entries[0].Relays)
	assert.Equal(t, "0111111111111111", f.journal.entries[3].Relays)

	// Journal failures never reach the controls.
	assert.Equal(t, ControlNormal, f.render.Control(ControlSet))
	assert.Equal(t, []string{"set", "get", "set", "write"}, f.history.sources)
	require.Len(t, f.history.states, 4)
	assert.Equal(t, relay.All(true), f.history.states[0])
	assert.Equal(t, uint16(0xfffe), f.history.states[3].Mask())
}

func TestRun_FIFOAndClose(t *testing.T) {
	f := newFixture(t)
	errCh := make(chan error, 1)
	go func() { errCh <- f.c.Run(context.Background()) }()

	for i := 0; i < relay.N; i++ {
		require.NoError(t, f.c.Send(ToggleRelay{Index: i, On: true}))
		require.NoError(t, f.c.Send(ToggleRelay{Index: i, On: i%2 == 0}))
	}
	require.NoError(t, f.c.Send(SetAll{}))
	require.NoError(t, f.c.Send(Close{}))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not stop")
	}

	assert.Equal(t, mustState(t, "1010101010101010"), f.boardState(t))
	assert.Equal(t, []string{"COM1", "COM3"}, f.render.ports)
	assert.ErrorIs(t, f.c.Send(GetAll{}), ErrClosed)

	select {
	case <-f.c.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- f.c.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not stop")
	}
	assert.ErrorIs(t, f.c.Send(SetAll{}), ErrClosed)
}

func TestNoDevice(t *testing.T) {
	render := NewMockRenderer()
	proj := project.New()
	proj.Interface = "COM1"
	c := New(Options{Renderer: render, Project: proj})

	c.handle(context.Background(), SetAll{})
	assert.Equal(t, ControlError, render.Control(ControlSet))
	c.handle(context.Background(), GetAll{})
	assert.Equal(t, ControlError, render.Control(ControlGet))
}

func TestIndicatorAndControlStrings(t *testing.T) {
	assert.Equal(t, "on", IndicatorOn.String())
	assert.Equal(t, "off", IndicatorOff.String())
	assert.Equal(t, "error", IndicatorError.String())
	assert.Equal(t, "normal", ControlNormal.String())
	assert.Equal(t, "error", ControlError.String())
}

func TestMultiRenderer(t *testing.T) {
	a, b := NewMockRenderer(), NewMockRenderer()
	m := MultiRenderer{a, b}

	m.RenderRelay(3, IndicatorError)
	m.RenderControl(ControlSave, ControlError)
	m.RenderRealtime(true)
	m.RenderPorts([]string{"COM1"}, "COM1")
	m.RenderPresets(PresetList{Names: []string{"p"}, Selection: project.Selected(0)})
	m.RenderProject(ProjectView{Name: "n"})

	for _, r := range []*MockRenderer{a, b} {
		assert.Equal(t, IndicatorError, r.Relay(3))
		assert.Equal(t, ControlError, r.Control(ControlSave))
		assert.True(t, r.realtime)
		assert.Equal(t, "COM1", r.selected)
		assert.Equal(t, []string{"p"}, r.presets.Names)
		assert.Equal(t, "n", r.project.Name)
	}
}

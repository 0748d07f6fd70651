package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/relaybank/internal/relay"
)

func mustState(t *testing.T, s string) relay.State {
	t.Helper()
	st, err := relay.Parse(s)
	require.NoError(t, err)
	return st
}

func TestNew(t *testing.T) {
	p := New()
	assert.Equal(t, relay.State{}, p.State)
	assert.Empty(t, p.Interface)
	assert.Equal(t, byte(1), p.SlaveID)
	assert.Empty(t, p.Presets)
	assert.True(t, p.Selection.IsNone())
	assert.False(t, p.Realtime)
}

func TestSelection(t *testing.T) {
	_, ok := NoSelection.Index()
	assert.False(t, ok)
	assert.Equal(t, "none", NoSelection.String())

	s := Selected(0)
	i, ok := s.Index()
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	assert.NotEqual(t, NoSelection, s)
}

func TestAddPreset_Dedup(t *testing.T) {
	p := New()
	s1 := mustState(t, "1111000011110000")
	s2 := mustState(t, "0000111100001111")

	i, added, err := p.AddPreset("x", s1)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 0, i)

	i, added, err = p.AddPreset("x", s2)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, i)

	require.Len(t, p.Presets, 1)
	assert.Equal(t, s1, p.Presets[0].State)
	sel, ok := p.Selection.Index()
	assert.True(t, ok)
	assert.Equal(t, 0, sel)
}

func TestAddPreset_SelectsNewLast(t *testing.T) {
	p := New()
	_, _, err := p.AddPreset("a", relay.All(true))
	require.NoError(t, err)
	i, _, err := p.AddPreset("b", relay.All(false))
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	// Re-adding an earlier name moves the selection back to it.
	i, added, err := p.AddPreset("a", relay.All(false))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, i)
	assert.Equal(t, Selected(0), p.Selection)
	assert.Equal(t, []string{"a", "b"}, p.PresetNames())
}

func TestPutPreset_ReplacesValue(t *testing.T) {
	p := New()
	s1 := mustState(t, "1111000011110000")
	s2 := mustState(t, "0000111100001111")
	_, _, err := p.AddPreset("x", s1)
	require.NoError(t, err)
	_, _, err = p.AddPreset("y", relay.All(false))
	require.NoError(t, err)

	i, added, err := p.PutPreset("x", s2)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 0, i)
	assert.Equal(t, Selected(0), p.Selection)
	require.Len(t, p.Presets, 2)
	assert.Equal(t, s2, p.Presets[0].State)

	i, added, err = p.PutPreset("z", s1)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 2, i)

	_, _, err = p.PutPreset("", s1)
	assert.ErrorIs(t, err, ErrPreset)
}

func TestAddPreset_EmptyName(t *testing.T) {
	p := New()
	_, _, err := p.AddPreset("", relay.All(true))
	assert.ErrorIs(t, err, ErrPreset)
	assert.Empty(t, p.Presets)
	assert.True(t, p.Selection.IsNone())
}

func TestRemovePreset(t *testing.T) {
	p := New()
	for _, n := range []string{"a", "b", "c"} {
		_, _, err := p.AddPreset(n, relay.All(true))
		require.NoError(t, err)
	}
	require.Equal(t, Selected(2), p.Selection)

	require.NoError(t, p.RemovePreset(1))
	assert.Equal(t, []string{"a", "c"}, p.PresetNames())
	// Selection is not adjusted and now points past the end.
	assert.Equal(t, Selected(2), p.Selection)
	_, err := p.SelectedPreset()
	assert.ErrorIs(t, err, ErrPreset)

	assert.ErrorIs(t, p.RemovePreset(2), ErrPreset)
	assert.ErrorIs(t, p.RemovePreset(-1), ErrPreset)
	assert.Len(t, p.Presets, 2)
}

func TestSelectAndSelectedPreset(t *testing.T) {
	p := New()
	_, err := p.SelectedPreset()
	assert.ErrorIs(t, err, ErrPreset)

	left := mustState(t, "1111111100000000")
	_, _, err = p.AddPreset("left", left)
	require.NoError(t, err)
	_, _, err = p.AddPreset("none", relay.All(false))
	require.NoError(t, err)

	require.NoError(t, p.Select(0))
	pr, err := p.SelectedPreset()
	require.NoError(t, err)
	assert.Equal(t, "left", pr.Name)
	assert.Equal(t, left, pr.State)

	assert.ErrorIs(t, p.Select(5), ErrPreset)
	assert.Equal(t, Selected(0), p.Selection)
}

func TestParseSlaveID(t *testing.T) {
	tests := []struct {
		input string
		want  byte
		ok    bool
	}{
		{"1", 1, true},
		{"255", 255, true},
		{" 17 ", 17, true},
		{"0", 0, false},
		{"256", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSlaveID(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort("COM3"))
	assert.ErrorIs(t, ValidatePort(""), ErrValidation)
	assert.ErrorIs(t, ValidatePort("   "), ErrValidation)
}

func TestParseRelays(t *testing.T) {
	_, err := ParseRelays("0101010101010101")
	assert.NoError(t, err)

	_, err = ParseRelays("012")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, relay.ErrInvalidState)
}

package project

import (
	"fmt"

	"github.com/nerrad567/relaybank/internal/relay"
)

// DefaultSlaveID is the slave id of a new project.
const DefaultSlaveID byte = 1

// Preset is a named relay state.
type Preset struct {
	Name  string
	State relay.State
}

// Selection is an optional preset index.
type Selection struct {
	index int
	valid bool
}

// NoSelection is the empty selection.
var NoSelection = Selection{}

// Selected returns a selection pointing at index.
func Selected(index int) Selection {
	return Selection{index: index, valid: true}
}

// Index returns the selected index and whether there is one.
func (s Selection) Index() (int, bool) {
	return s.index, s.valid
}

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool {
	return !s.valid
}

func (s Selection) String() string {
	if !s.valid {
		return "none"
	}
	return fmt.Sprintf("%d", s.index)
}

// Project is the persisted aggregate owned by the controller.
type Project struct {
	Name      string
	State     relay.State
	Interface string
	SlaveID   byte
	Presets   []Preset
	Selection Selection
	Realtime  bool
}

// New returns the default project: all relays off, no interface, slave 1,
// no presets, nothing selected, realtime off.
func New() *Project {
	return &Project{SlaveID: DefaultSlaveID}
}

// FindPreset returns the index of the first preset called name, or -1.
func (p *Project) FindPreset(name string) int {
	for i, pr := range p.Presets {
		if pr.Name == name {
			return i
		}
	}
	return -1
}

// AddPreset stores state under name and selects it. If a preset with that
// name already exists it is selected instead and keeps its value; added
// reports which case happened.
func (p *Project) AddPreset(name string, state relay.State) (index int, added bool, err error) {
	if name == "" {
		return 0, false, fmt.Errorf("%w: empty name", ErrPreset)
	}
	if i := p.FindPreset(name); i >= 0 {
		p.Selection = Selected(i)
		return i, false, nil
	}
	p.Presets = append(p.Presets, Preset{Name: name, State: state})
	index = len(p.Presets) - 1
	p.Selection = Selected(index)
	return index, true, nil
}

// PutPreset stores state under name and selects it, replacing the value of
// an existing preset with that name.
func (p *Project) PutPreset(name string, state relay.State) (index int, added bool, err error) {
	index, added, err = p.AddPreset(name, state)
	if err != nil {
		return 0, false, err
	}
	p.Presets[index].State = state
	return index, added, nil
}

// RemovePreset deletes the preset at index. The selection is left alone.
func (p *Project) RemovePreset(index int) error {
	if index < 0 || index >= len(p.Presets) {
		return fmt.Errorf("%w: index %d out of range (%d presets)", ErrPreset, index, len(p.Presets))
	}
	p.Presets = append(p.Presets[:index], p.Presets[index+1:]...)
	return nil
}

// Select points the selection at index.
func (p *Project) Select(index int) error {
	if index < 0 || index >= len(p.Presets) {
		return fmt.Errorf("%w: index %d out of range (%d presets)", ErrPreset, index, len(p.Presets))
	}
	p.Selection = Selected(index)
	return nil
}

// SelectedPreset returns the preset the selection points at.
func (p *Project) SelectedPreset() (Preset, error) {
	i, ok := p.Selection.Index()
	if !ok {
		return Preset{}, fmt.Errorf("%w: no preset selected", ErrPreset)
	}
	if i < 0 || i >= len(p.Presets) {
		return Preset{}, fmt.Errorf("%w: selection %d out of range (%d presets)", ErrPreset, i, len(p.Presets))
	}
	return p.Presets[i], nil
}

// PresetNames returns the preset names in order.
func (p *Project) PresetNames() []string {
	names := make([]string, len(p.Presets))
	for i, pr := range p.Presets {
		names[i] = pr.Name
	}
	return names
}

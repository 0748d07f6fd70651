package controller

import "github.com/nerrad567/relaybank/internal/project"

// Indicator is the displayed state of one relay.
type Indicator int

// Relay indicator states.
const (
	IndicatorOff Indicator = iota
	IndicatorOn
	IndicatorError
)

func (i Indicator) String() string {
	switch i {
	case IndicatorOn:
		return "on"
	case IndicatorError:
		return "error"
	default:
		return "off"
	}
}

// IndicatorFor maps a relay position to its indicator.
func IndicatorFor(on bool) Indicator {
	if on {
		return IndicatorOn
	}
	return IndicatorOff
}

// Control names a front-end control that can show an error.
type Control string

// Controls.
const (
	ControlSet    Control = "set"
	ControlGet    Control = "get"
	ControlSave   Control = "save"
	ControlOpen   Control = "open"
	ControlApply  Control = "apply"
	ControlPreset Control = "preset"
)

// Controls lists every control in display order.
var Controls = []Control{ControlSet, ControlGet, ControlSave, ControlOpen, ControlApply, ControlPreset}

// ControlState is the displayed state of a control.
type ControlState int

// Control states.
const (
	ControlNormal ControlState = iota
	ControlError
)

func (s ControlState) String() string {
	if s == ControlError {
		return "error"
	}
	return "normal"
}

// PresetList is the preset menu content.
type PresetList struct {
	Names     []string
	Selection project.Selection
}

// ProjectView carries the editable project fields.
type ProjectView struct {
	Name      string
	Interface string
	SlaveID   string
}

// Renderer receives render commands. The controller calls it from its loop
// goroutine only; implementations must not block for long.
type Renderer interface {
	RenderRelay(index int, ind Indicator)
	RenderControl(c Control, s ControlState)
	RenderPorts(ports []string, selected string)
	RenderPresets(list PresetList)
	RenderRealtime(on bool)
	RenderProject(v ProjectView)
}

// MultiRenderer fans render commands out to several renderers.
type MultiRenderer []Renderer

func (m MultiRenderer) RenderRelay(index int, ind Indicator) {
	for _, r := range m {
		r.RenderRelay(index, ind)
	}
}

func (m MultiRenderer) RenderControl(c Control, s ControlState) {
	for _, r := range m {
		r.RenderControl(c, s)
	}
}

func (m MultiRenderer) RenderPorts(ports []string, selected string) {
	for _, r := range m {
		r.RenderPorts(ports, selected)
	}
}

func (m MultiRenderer) RenderPresets(list PresetList) {
	for _, r := range m {
		r.RenderPresets(list)
	}
}

func (m MultiRenderer) RenderRealtime(on bool) {
	for _, r := range m {
		r.RenderRealtime(on)
	}
}

func (m MultiRenderer) RenderProject(v ProjectView) {
	for _, r := range m {
		r.RenderProject(v)
	}
}

// nopRenderer discards render commands.
type nopRenderer struct{}

func (nopRenderer) RenderRelay(int, Indicator)          {}
func (nopRenderer) RenderControl(Control, ControlState) {}
func (nopRenderer) RenderPorts([]string, string)        {}
func (nopRenderer) RenderPresets(PresetList)            {}
func (nopRenderer) RenderRealtime(bool)                 {}
func (nopRenderer) RenderProject(ProjectView)           {}

package tui

import "github.com/nerrad567/relaybank/internal/controller"

// relayMsg updates one relay indicator.
type relayMsg struct {
	index int
	ind   controller.Indicator
}

// controlMsg updates one control state.
type controlMsg struct {
	control controller.Control
	state   controller.ControlState
}

// portsMsg replaces the port list.
type portsMsg struct {
	ports    []string
	selected string
}

// presetsMsg replaces the preset menu.
type presetsMsg struct {
	list controller.PresetList
}

// realtimeMsg updates the realtime flag.
type realtimeMsg struct {
	on bool
}

// projectMsg replaces the project fields.
type projectMsg struct {
	view controller.ProjectView
}

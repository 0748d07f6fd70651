package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left         key.Binding
	Right        key.Binding
	Toggle       key.Binding
	Set          key.Binding
	Get          key.Binding
	AllOn        key.Binding
	AllOff       key.Binding
	Realtime     key.Binding
	PresetUp     key.Binding
	PresetDown   key.Binding
	ApplyPreset  key.Binding
	AddPreset    key.Binding
	RemovePreset key.Binding
	NextPort     key.Binding
	RefreshPorts key.Binding
	SlaveID      key.Binding
	SaveProject  key.Binding
	OpenProject  key.Binding
	ExportPreset key.Binding
	ImportPreset key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev relay")),
	Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next relay")),
	Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Set:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "set")),
	Get:          key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "get")),
	AllOn:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all on")),
	AllOff:       key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "all off")),
	Realtime:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "realtime")),
	PresetUp:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev preset")),
	PresetDown:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next preset")),
	ApplyPreset:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply preset")),
	AddPreset:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add preset")),
	RemovePreset: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove preset")),
	NextPort:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next port")),
	RefreshPorts: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan ports")),
	SlaveID:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "slave id")),
	SaveProject:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save project")),
	OpenProject:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open project")),
	ExportPreset: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export preset")),
	ImportPreset: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import preset")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

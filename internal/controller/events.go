package controller

// Event is an intent sent to the controller.
type Event interface {
	eventName() string
}

// ToggleRelay sets relay Index (0-based) to On. In realtime mode the relay is
// written to the board immediately.
type ToggleRelay struct {
	Index int
	On    bool
}

// SetAll writes the in-memory relay vector to the board.
type SetAll struct{}

// GetAll reads the board into the in-memory relay vector.
type GetAll struct{}

// AllOn switches every relay on in memory.
type AllOn struct{}

// AllOff switches every relay off in memory.
type AllOff struct{}

// AddPreset stores the current relay vector under Name, or selects the
// existing preset of that name.
type AddPreset struct {
	Name string
}

// RemovePreset deletes the preset at Index.
type RemovePreset struct {
	Index int
}

// SelectPreset selects the preset at Index.
type SelectPreset struct {
	Index int
}

// ApplyPreset loads the selected preset into the relay vector.
type ApplyPreset struct{}

// SaveProject writes the project to Path.
type SaveProject struct {
	Path string
}

// OpenProject replaces the project with the one stored at Path.
type OpenProject struct {
	Path string
}

// RefreshPorts re-enumerates serial ports.
type RefreshPorts struct{}

// ToggleRealtime flips realtime mode.
type ToggleRealtime struct{}

// SetInterface sets the serial port field.
type SetInterface struct {
	Name string
}

// SetSlaveID sets the slave id field. The text is validated on SET and GET.
type SetSlaveID struct {
	Text string
}

// SavePresetFile writes the relay vector to a legacy preset file.
type SavePresetFile struct {
	Path string
}

// LoadPresetFile adds the preset stored at Path, selects it and applies it.
type LoadPresetFile struct {
	Path string
}

// Close stops the loop. The project is not saved.
type Close struct{}

func (ToggleRelay) eventName() string    { return "toggle_relay" }
func (SetAll) eventName() string         { return "set_all" }
func (GetAll) eventName() string         { return "get_all" }
func (AllOn) eventName() string          { return "all_on" }
func (AllOff) eventName() string         { return "all_off" }
func (AddPreset) eventName() string      { return "add_preset" }
func (RemovePreset) eventName() string   { return "remove_preset" }
func (SelectPreset) eventName() string   { return "select_preset" }
func (ApplyPreset) eventName() string    { return "apply_preset" }
func (SaveProject) eventName() string    { return "save_project" }
func (OpenProject) eventName() string    { return "open_project" }
func (RefreshPorts) eventName() string   { return "refresh_ports" }
func (ToggleRealtime) eventName() string { return "toggle_realtime" }
func (SetInterface) eventName() string   { return "set_interface" }
func (SetSlaveID) eventName() string     { return "set_slave_id" }
func (SavePresetFile) eventName() string { return "save_preset_file" }
func (LoadPresetFile) eventName() string { return "load_preset_file" }
func (Close) eventName() string          { return "close" }

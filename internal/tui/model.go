package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nerrad567/relaybank/internal/controller"
	"github.com/nerrad567/relaybank/internal/project"
	"github.com/nerrad567/relaybank/internal/relay"
)

// promptKind names what the text input is collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptPresetName
	promptSlaveID
	promptSaveProject
	promptOpenProject
	promptExportPreset
	promptImportPreset
)

func (p promptKind) label() string {
	switch p {
	case promptPresetName:
		return "preset name"
	case promptSlaveID:
		return "slave id"
	case promptSaveProject:
		return "save project to"
	case promptOpenProject:
		return "open project"
	case promptExportPreset:
		return "export preset to"
	case promptImportPreset:
		return "import preset from"
	default:
		return ""
	}
}

// Options configures a Model.
type Options struct {
	// Sender receives the events produced by key presses. Required.
	Sender Sender

	// Logger reports undeliverable events. Optional.
	Logger Logger
}

// Model is the bubbletea model of the relay bank front-end.
type Model struct {
	events *forwarder
	help   help.Model
	input  textinput.Model
	prompt promptKind

	relays    [relay.N]controller.Indicator
	cursor    int
	controls  map[controller.Control]controller.ControlState
	ports     []string
	port      string
	presets   []string
	selection project.Selection
	realtime  bool
	project   controller.ProjectView
	status    string
	quitting  bool
}

// NewModel creates the front-end model.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	in := textinput.New()
	in.CharLimit = 256

	return Model{
		events:   newForwarder(opts.Sender, logger),
		help:     help.New(),
		input:    in,
		controls: make(map[controller.Control]controller.ControlState),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case relayMsg:
		if relay.CheckIndex(msg.index) == nil {
			m.relays[msg.index] = msg.ind
		}
		return m, nil

	case controlMsg:
		m.controls[msg.control] = msg.state
		if msg.state == controller.ControlError {
			m.status = string(msg.control) + " failed"
		}
		return m, nil

	case portsMsg:
		m.ports = msg.ports
		m.port = msg.selected
		return m, nil

	case presetsMsg:
		m.presets = msg.list.Names
		m.selection = msg.list.Selection
		return m, nil

	case realtimeMsg:
		m.realtime = msg.on
		return m, nil

	case projectMsg:
		m.project = msg.view
		m.port = msg.view.Interface
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.events.push(controller.Close{})
		return m, tea.Quit

	case key.Matches(msg, keys.Left):
		m.cursor = (m.cursor + relay.N - 1) % relay.N
	case key.Matches(msg, keys.Right):
		m.cursor = (m.cursor + 1) % relay.N
	case key.Matches(msg, keys.Toggle):
		m.events.push(controller.ToggleRelay{Index: m.cursor, On: m.relays[m.cursor] != controller.IndicatorOn})

	case key.Matches(msg, keys.Set):
		m.events.push(controller.SetAll{})
	case key.Matches(msg, keys.Get):
		m.events.push(controller.GetAll{})
	case key.Matches(msg, keys.AllOn):
		m.events.push(controller.AllOn{})
	case key.Matches(msg, keys.AllOff):
		m.events.push(controller.AllOff{})
	case key.Matches(msg, keys.Realtime):
		m.events.push(controller.ToggleRealtime{})

	case key.Matches(msg, keys.PresetUp):
		m.stepPreset(-1)
	case key.Matches(msg, keys.PresetDown):
		m.stepPreset(1)
	case key.Matches(msg, keys.ApplyPreset):
		m.events.push(controller.ApplyPreset{})
	case key.Matches(msg, keys.RemovePreset):
		if i, ok := m.selection.Index(); ok {
			m.events.push(controller.RemovePreset{Index: i})
		}

	case key.Matches(msg, keys.NextPort):
		m.nextPort()
	case key.Matches(msg, keys.RefreshPorts):
		m.events.push(controller.RefreshPorts{})

	case key.Matches(msg, keys.AddPreset):
		return m.openPrompt(promptPresetName, "")
	case key.Matches(msg, keys.SlaveID):
		return m.openPrompt(promptSlaveID, m.project.SlaveID)
	case key.Matches(msg, keys.SaveProject):
		return m.openPrompt(promptSaveProject, "")
	case key.Matches(msg, keys.OpenProject):
		return m.openPrompt(promptOpenProject, "")
	case key.Matches(msg, keys.ExportPreset):
		return m.openPrompt(promptExportPreset, "")
	case key.Matches(msg, keys.ImportPreset):
		return m.openPrompt(promptImportPreset, "")
	}
	return m, nil
}

// stepPreset moves the preset selection by delta, wrapping around.
func (m *Model) stepPreset(delta int) {
	n := len(m.presets)
	if n == 0 {
		return
	}
	next := 0
	if delta < 0 {
		next = n - 1
	}
	if i, ok := m.selection.Index(); ok {
		next = (i + delta + n) % n
	}
	m.events.push(controller.SelectPreset{Index: next})
}

// nextPort selects the port after the current one.
func (m *Model) nextPort() {
	if len(m.ports) == 0 {
		return
	}
	next := m.ports[0]
	for i, p := range m.ports {
		if p == m.port {
			next = m.ports[(i+1)%len(m.ports)]
			break
		}
	}
	m.port = next
	m.project.Interface = next
	m.events.push(controller.SetInterface{Name: next})
}

func (m Model) openPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.Prompt = kind.label() + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyCtrlC:
		m.closePrompt()
		return m.handleKey(msg)
	case tea.KeyEnter:
		m.submitPrompt(m.input.Value())
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) submitPrompt(value string) {
	path := strings.TrimSpace(value)

	switch m.prompt {
	case promptPresetName:
		m.events.push(controller.AddPreset{Name: value})
	case promptSlaveID:
		m.project.SlaveID = value
		m.events.push(controller.SetSlaveID{Text: value})
	case promptSaveProject:
		if path != "" {
			m.events.push(controller.SaveProject{Path: path})
		}
	case promptOpenProject:
		if path != "" {
			m.events.push(controller.OpenProject{Path: path})
		}
	case promptExportPreset:
		if path != "" {
			m.events.push(controller.SavePresetFile{Path: path})
		}
	case promptImportPreset:
		if path != "" {
			m.events.push(controller.LoadPresetFile{Path: path})
		}
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nerrad567/relaybank/internal/controller"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.viewHeader(),
		m.viewRelays(),
		m.viewControls(),
		m.viewConnection(),
		m.viewPresets(),
	}
	if m.prompt != promptNone {
		sections = append(sections, m.input.View())
	}
	if m.status != "" {
		sections = append(sections, errorStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	name := m.project.Name
	if name == "" {
		name = "untitled"
	}
	return titleStyle.Render("relaybank") + dimStyle.Render(" · "+name)
}

func (m Model) viewRelays() string {
	cells := make([]string, len(m.relays))
	for i, ind := range m.relays {
		label := fmt.Sprintf(" %02d ", i+1)
		style := relayOffStyle
		switch ind {
		case controller.IndicatorOn:
			style = relayOnStyle
		case controller.IndicatorError:
			style = relayErrorStyle
			label = fmt.Sprintf("!%02d ", i+1)
		}
		if i == m.cursor {
			style = style.Inherit(cursorStyle)
		}
		cells[i] = style.Render(label)
	}
	return strings.Join(cells, "")
}

func (m Model) viewControls() string {
	boxes := make([]string, 0, len(controller.Controls))
	for _, c := range controller.Controls {
		style := controlStyle
		if m.controls[c] == controller.ControlError {
			style = controlErrorStyle
		}
		boxes = append(boxes, style.Render(string(c)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m Model) viewConnection() string {
	port := m.port
	if port == "" {
		port = "none"
	}
	realtime := "off"
	if m.realtime {
		realtime = "on"
	}
	ports := "no ports found"
	if len(m.ports) > 0 {
		ports = strings.Join(m.ports, ", ")
	}
	return fmt.Sprintf("%s %s %s   %s %s   %s %s",
		labelStyle.Render("port:"), port, dimStyle.Render("("+ports+")"),
		labelStyle.Render("slave:"), m.project.SlaveID,
		labelStyle.Render("realtime:"), realtime)
}

func (m Model) viewPresets() string {
	if len(m.presets) == 0 {
		return labelStyle.Render("presets:") + dimStyle.Render(" none")
	}
	selected, ok := m.selection.Index()
	if !ok {
		selected = -1
	}

	lines := []string{labelStyle.Render("presets:")}
	for i, name := range m.presets {
		if i == selected {
			lines = append(lines, selectedStyle.Render("> "+name))
			continue
		}
		lines = append(lines, "  "+name)
	}
	return strings.Join(lines, "\n")
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Set, k.Get, k.Realtime, k.ApplyPreset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Toggle, k.AllOn, k.AllOff},
		{k.Set, k.Get, k.Realtime},
		{k.PresetUp, k.PresetDown, k.ApplyPreset, k.AddPreset, k.RemovePreset},
		{k.NextPort, k.RefreshPorts, k.SlaveID},
		{k.SaveProject, k.OpenProject, k.ExportPreset, k.ImportPreset, k.Quit},
	}
}

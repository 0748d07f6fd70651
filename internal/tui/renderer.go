package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nerrad567/relaybank/internal/controller"
)

// Program is the part of *tea.Program the renderer needs.
type Program interface {
	Send(msg tea.Msg)
}

// Renderer forwards render commands to a running bubbletea program.
type Renderer struct {
	program Program
}

// NewRenderer returns a renderer bound to p.
func NewRenderer(p Program) *Renderer {
	return &Renderer{program: p}
}

func (r *Renderer) RenderRelay(index int, ind controller.Indicator) {
	r.program.Send(relayMsg{index: index, ind: ind})
}

func (r *Renderer) RenderControl(c controller.Control, s controller.ControlState) {
	r.program.Send(controlMsg{control: c, state: s})
}

func (r *Renderer) RenderPorts(ports []string, selected string) {
	r.program.Send(portsMsg{ports: append([]string(nil), ports...), selected: selected})
}

func (r *Renderer) RenderPresets(list controller.PresetList) {
	list.Names = append([]string(nil), list.Names...)
	r.program.Send(presetsMsg{list: list})
}

func (r *Renderer) RenderRealtime(on bool) {
	r.program.Send(realtimeMsg{on: on})
}

func (r *Renderer) RenderProject(v controller.ProjectView) {
	r.program.Send(projectMsg{view: v})
}

var _ controller.Renderer = (*Renderer)(nil)

package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan

	relayOnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true) // green
	relayOffStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
	relayErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true) // red
	cursorStyle     = lipgloss.NewStyle().Reverse(true)

	controlStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	controlErrorStyle = controlStyle.BorderForeground(lipgloss.Color("1"))

	labelStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true) // magenta
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

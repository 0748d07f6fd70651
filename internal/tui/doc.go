// Package tui is the terminal front-end of the relay bank controller.
//
// The Model is a bubbletea model that only ever talks to the controller
// through events; it never touches the project or the board. The Renderer
// turns controller render commands into bubbletea messages, so all display
// state changes happen on the bubbletea goroutine.
package tui

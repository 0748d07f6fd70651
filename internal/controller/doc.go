// Package controller is the relay bank's application controller.
//
// A Controller owns the current project and relay vector and drives every
// device operation. Front-ends (the terminal UI, the MQTT surface) never touch
// that state: they Send events and receive render commands through the
// Renderer interface.
//
// # Event loop
//
// Events are consumed from a single channel in arrival order. Each event is
// handled to completion, including any device operation it triggers, before
// the next one is dequeued:
//
//	Idle ──SetAll/GetAll/realtime toggle──▶ AwaitingDeviceOp ──done──▶ Idle
//
// This is what keeps at most one device operation in flight and gives that
// operation exclusive use of the serial port. The price is that the loop does
// not react to new events while a device call is running. Device operations
// are not cancelled by shutdown; they run to completion or time out.
//
// # Errors
//
// Nothing escapes a handler. Every failure becomes a render command (an error
// marker on a relay or a control) plus a log line. Journal and history
// failures are logged only.
package controller

package mqtt

import (
	"fmt"
	"strings"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "relaybank"

// Topics builds the topic names under one prefix.
//
//	topics := mqtt.NewTopics("relaybank")
//	topics.RelayState(3) // "relaybank/state/relay/3"
type Topics struct {
	prefix string
}

// NewTopics returns the builder for prefix. Trailing slashes are dropped.
func NewTopics(prefix string) Topics {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic prefix.
func (t Topics) Prefix() string {
	return t.prefix
}

// Command returns the topic for one command action.
//
// Example: relaybank/command/toggle
func (t Topics) Command(action string) string {
	return fmt.Sprintf("%s/command/%s", t.prefix, action)
}

// AllCommands returns the subscription pattern for every command.
func (t Topics) AllCommands() string {
	return t.prefix + "/command/+"
}

// ParseCommand extracts the action from a command topic.
func (t Topics) ParseCommand(topic string) (string, bool) {
	action, ok := strings.CutPrefix(topic, t.prefix+"/command/")
	if !ok || action == "" || strings.Contains(action, "/") {
		return "", false
	}
	return action, true
}

// RelayState returns the state topic of physical relay n (1-based).
func (t Topics) RelayState(n int) string {
	return fmt.Sprintf("%s/state/relay/%d", t.prefix, n)
}

// ControlState returns the state topic of a named control.
func (t Topics) ControlState(name string) string {
	return fmt.Sprintf("%s/state/control/%s", t.prefix, name)
}

// Ports returns the topic carrying the serial port list.
func (t Topics) Ports() string {
	return t.prefix + "/state/ports"
}

// Presets returns the topic carrying the preset list.
func (t Topics) Presets() string {
	return t.prefix + "/state/presets"
}

// Realtime returns the topic carrying the realtime flag.
func (t Topics) Realtime() string {
	return t.prefix + "/state/realtime"
}

// Project returns the topic carrying the project fields.
func (t Topics) Project() string {
	return t.prefix + "/state/project"
}

// Status returns the online/offline status topic (also the LWT topic).
func (t Topics) Status() string {
	return t.prefix + "/status"
}

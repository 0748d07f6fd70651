// Package mqtt provides the MQTT client behind the remote control surface.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing retained state with the configured QoS
//   - Topic subscriptions, restored after a reconnect
//   - Last Will and Testament on <prefix>/status for offline detection
//
// # Topics
//
// All topics live under the configured prefix (default "relaybank"):
//
//	relaybank/command/<action>        inbound commands
//	relaybank/state/relay/<n>         on | off | error, n = 1..16
//	relaybank/state/control/<name>    normal | error
//	relaybank/state/ports             JSON list of serial ports
//	relaybank/state/presets           JSON preset list and selection
//	relaybank/state/realtime          true | false
//	relaybank/state/project           JSON name, interface and slave id
//	relaybank/status                  online/offline (LWT)
//
// Use Topics to build them rather than formatting strings by hand.
package mqtt

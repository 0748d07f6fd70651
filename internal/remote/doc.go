// Package remote exposes the relay bank controller over MQTT.
//
// Inbound, every message on <prefix>/command/<action> becomes one controller
// event. Payloads are JSON objects; actions without arguments accept an empty
// payload:
//
//	toggle            {"relay": 1..16, "on": true}
//	set, get, all_on, all_off, apply_preset, refresh_ports, toggle_realtime
//	add_preset        {"name": "evening"}
//	remove_preset     {"index": 0}
//	select_preset     {"index": 0}
//	save_project      {"path": "/srv/bank.json"}
//	open_project      {"path": "/srv/bank.json"}
//	save_preset_file  {"path": "/srv/evening.txt"}
//	load_preset_file  {"path": "/srv/evening.txt"}
//	set_interface     {"value": "/dev/ttyUSB0"}
//	set_slave         {"value": "1"}
//
// Malformed commands are logged and dropped.
//
// Outbound, Surface implements controller.Renderer and publishes every render
// command as a retained message under <prefix>/state/. Publishing happens on
// a separate goroutine and only the latest payload per topic is kept, so a
// slow broker never stalls the controller loop.
package remote

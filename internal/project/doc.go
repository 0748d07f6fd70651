// Package project holds the preset and project store.
//
// A Project is the persisted aggregate: the last relay state, connection
// fields, an ordered list of named presets, the selected preset and the
// realtime flag. It is a plain value mutated by the controller; nothing here
// touches the device.
//
// Selection is explicit. NoSelection is distinct from index 0 and the -1 used
// in the file format never reaches callers.
//
// # Files
//
// The project file is JSON:
//
//	{
//	  "name": "bench",
//	  "relay_state": "0101010101010101",
//	  "interface": "/dev/ttyUSB0",
//	  "slave_id": 1,
//	  "presets": [{"name": "all on", "value": "1111111111111111"}],
//	  "current_preset": -1,
//	  "realtime": false
//	}
//
// Load rejects the whole file on any violation. A legacy preset file holds a
// bare 16-character relay string.
package project

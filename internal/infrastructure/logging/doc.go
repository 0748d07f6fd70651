// Package logging provides structured logging for relaybank.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for machine consumption
//   - Text output for humans
//   - File output for the terminal UI (stdout belongs to the UI)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr, file
//	  file:
//	    path: "./data/relaybank.log"
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("relay bank applied", "port", "/dev/ttyUSB0", "slave", 1)
//	logger.Error("device read failed", "error", err)
package logging

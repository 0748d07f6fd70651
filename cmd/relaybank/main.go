// relaybank controls a 16-channel Modbus RTU relay board.
//
// Interactive mode shows a terminal UI and, when configured, mirrors it over
// MQTT. Headless mode applies one relay string and exits:
//
//	relaybank bank.json
//	relaybank --headless -i /dev/ttyUSB0 -s 1 -r 1010000000000001
//	relaybank --simulate
//	relaybank journal --limit 20
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath returns the config path from RELAYBANK_CONFIG or the default.
func getConfigPath() string {
	if path := os.Getenv("RELAYBANK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

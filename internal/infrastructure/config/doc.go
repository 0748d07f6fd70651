// Package config handles loading and validating relaybank configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Loading a .env file and overriding with environment variables
//   - Validation of required fields
//   - Default value handling (the R4D3B16 framing: 9600 8N1)
//
// Security Considerations:
//   - Broker passwords and InfluxDB tokens should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.LoadOrDefault("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Serial.BaudRate)
package config

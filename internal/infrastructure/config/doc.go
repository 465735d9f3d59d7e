// Package config handles loading and validating the wire panel service configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (WIREPANEL_*)
//   - Validation of boards, tools and operators
//   - Default value handling
//
// Sensitive values (MQTT password, InfluxDB token) should be set via
// environment variables rather than committed to the config file.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Service.Name)
package config

// Package config loads and validates camwatch configuration.
//
// Configuration comes from a YAML file with three layers of precedence:
//
//  1. Built-in defaults
//  2. Values from the YAML file
//  3. CAMWATCH_* environment variable overrides (secrets and host overrides)
//
// # Example
//
//	cameras:
//	  - address: "10.0.1.20"
//	    username: "admin"
//	    password: "secret"
//	refresh:
//	  interval: 5
//	  device_concurrency: 10
//	events:
//	  transport: mqtt
//	mqtt:
//	  broker:
//	    host: "localhost"
//	    port: 1883
//
// Validate is called by Load; a configuration that fails validation is
// rejected at startup rather than producing partial behaviour later.
package config

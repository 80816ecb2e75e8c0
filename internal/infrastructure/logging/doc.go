// Package logging provides structured logging for camwatch.
//
// It wraps log/slog so every component logs through one configured handler:
// JSON for production, text for development, with service and version fields
// on every entry.
//
// Configuration comes from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Never log device credentials; the base URL carries basic-auth userinfo and
// must be redacted before appearing in any log field.
package logging

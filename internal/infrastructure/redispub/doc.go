// Package redispub provides the Redis notification transport for camwatch.
//
// It publishes the same JSON payloads as the MQTT transport on two channels:
//
//	camwatch.device.insert   device discovered
//	camwatch.device.update   detection status replaced
//
// Selected via events.transport: redis in config.yaml. Redis pub/sub has no
// retention, so subscribers only see events published while connected; this
// matches the fire-and-forget notification contract.
package redispub

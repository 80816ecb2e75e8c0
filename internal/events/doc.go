// Package events publishes cache change notifications.
//
// The engine's registry and status store announce every write
// synchronously; the notifier serializes each event as {"id": ..., "value":
// ...} and hands it to the configured transport, MQTT or Redis pub/sub.
// Delivery is best-effort with no acknowledgment, but a transport-level
// failure is fatal: the notifier signals the run loop and the process
// restarts rather than running with a dead notification channel.
package events

// Package mqtt provides the MQTT notification channel for camwatch.
//
// The gateway publishes two kinds of device notifications, one message per
// cache write:
//
//	camwatch/device/{id}/inserted   device discovered (payload: {"id":..., "value":...})
//	camwatch/device/{id}/status     detection status replaced (same payload shape)
//
// Delivery is fire-and-forget at the configured QoS; no acknowledgment is
// read back and nothing is retried at this layer. Gateway liveness is
// published retained on camwatch/system/status with an LWT so consumers can
// detect an unclean exit.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil { ... }
//	defer client.Close()
//
//	topic := mqtt.Topics{}.DeviceStatus(deviceID)
//	err = client.PublishEvent(topic, payload)
package mqtt

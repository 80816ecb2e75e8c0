package mqtt

import "fmt"

// Topic prefixes for camwatch notifications.
//
// Device topics use the scheme: camwatch/device/{id}/{event}
const (
	// TopicPrefixDevice is the base for per-device notification topics.
	TopicPrefixDevice = "camwatch/device"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "camwatch/system"
)

// Topics provides builders for camwatch MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// DeviceInserted returns the topic for device discovery notifications.
//
// Example: camwatch/device/DS-2CD2T42-1234/inserted
func (Topics) DeviceInserted(deviceID string) string {
	return fmt.Sprintf("%s/%s/inserted", TopicPrefixDevice, deviceID)
}

// DeviceStatus returns the topic for detection status update notifications.
//
// Example: camwatch/device/DS-2CD2T42-1234/status
func (Topics) DeviceStatus(deviceID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixDevice, deviceID)
}

// SystemStatus returns the gateway status topic.
//
// Example: camwatch/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDeviceInserts returns a pattern matching all discovery notifications.
//
// Pattern: camwatch/device/+/inserted
func (Topics) AllDeviceInserts() string {
	return fmt.Sprintf("%s/+/inserted", TopicPrefixDevice)
}

// AllDeviceStatuses returns a pattern matching all status notifications.
//
// Pattern: camwatch/device/+/status
func (Topics) AllDeviceStatuses() string {
	return fmt.Sprintf("%s/+/status", TopicPrefixDevice)
}

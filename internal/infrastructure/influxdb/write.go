package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDetectionEvent records one feature's state from a status refresh.
//
// One point is written per (device, feature) pair each time the status store
// is replaced, so the bucket holds a history of when detection was armed and
// how many zones were configured. The write is non-blocking and batched.
//
// Example:
//
//	client.WriteDetectionEvent("cam-front-01", "LineDetection", true, 2)
func (c *Client) WriteDetectionEvent(deviceID, feature string, enabled bool, zones int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"detection",
		map[string]string{
			"device_id": deviceID,
			"feature":   feature,
		},
		map[string]interface{}{
			"enabled": enabled,
			"zones":   zones,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDeviceDiscovered records a discovery event for a device.
func (c *Client) WriteDeviceDiscovered(deviceID string, capabilities int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"discovery",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"capabilities": capabilities,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

package camera

// DeviceTypeCamera is the class tag carried by every discovered device.
const DeviceTypeCamera = "ip.camera"

// Canonical feature keys used in DetectionStatus and over the API.
const (
	FeatureKeyLine  = "line"
	FeatureKeyField = "field"
)

// Device is one discovered camera. The network address and credentials stay
// inside the per-device protocol client and are never exposed here.
//
// Capabilities is the set of detection feature names the device reported
// supported, populated once at discovery. Re-discovery replaces the whole
// Device.
type Device struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Location     string              `json:"location"`
	Type         string              `json:"type"`
	Capabilities map[string]struct{} `json:"capabilities"`
}

// Point is a coordinate in normalized screen space: x,y in [0,1] with a
// bottom-left origin (y increases upward), device independent.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineStatus is the normalized state of a device's line-crossing detection.
type LineStatus struct {
	Enabled bool       `json:"enabled"`
	Lines   [][2]Point `json:"lines"`
}

// FieldStatus is the normalized state of a device's field-intrusion
// detection. Each region is a polygon of at least three points.
type FieldStatus struct {
	Enabled bool      `json:"enabled"`
	Regions [][]Point `json:"regions"`
}

// DetectionStatus is the canonical per-device detection state, keyed by
// feature. A nil feature means the device did not report it this cycle.
// The whole value is replaced atomically on every successful refresh.
type DetectionStatus struct {
	Line  *LineStatus  `json:"line,omitempty"`
	Field *FieldStatus `json:"field,omitempty"`
}

// Empty reports whether no feature contributed to the status.
func (s DetectionStatus) Empty() bool {
	return s.Line == nil && s.Field == nil
}

// DeviceState pairs a device with its current detection status for listing.
type DeviceState struct {
	Device
	Status DetectionStatus `json:"status"`
}

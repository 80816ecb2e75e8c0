package isapi

import (
	"fmt"
	"regexp"
	"strconv"
)

// Well-known ISAPI paths.
const (
	// DeviceInfoPath returns the device identity document.
	DeviceInfoPath = "/System/deviceInfo"

	// CapabilitiesPath returns the smart-feature capability manifest.
	CapabilitiesPath = "/Smart/capabilities"

	// SnapshotPath returns the current still image for channel 1.
	SnapshotPath = "/Streaming/channels/1/picture"
)

// Feature names the gateway knows how to parse. Devices may report others;
// their settings are fetched but contribute nothing to the parsed status.
const (
	FeatureLineDetection  = "LineDetection"
	FeatureFieldDetection = "FieldDetection"
)

// SettingPath returns the settings path for a smart feature.
// A few features hang their settings off a /channels subtree.
func SettingPath(feature string) string {
	switch feature {
	case "ROI", "AudioDetection":
		return "/Smart/" + feature + "/channels"
	default:
		return "/Smart/" + feature
	}
}

// DeviceInfo is the parsed identity document.
type DeviceInfo struct {
	ID       string
	Name     string
	Location string
	Model    string
	Firmware string
}

// ParseDeviceInfo extracts identity fields from a /System/deviceInfo document.
func ParseDeviceInfo(doc *Element) (DeviceInfo, error) {
	if doc == nil || doc.Name != "DeviceInfo" {
		return DeviceInfo{}, fmt.Errorf("%w: expected DeviceInfo document", ErrBadDocument)
	}

	info := DeviceInfo{
		ID:       doc.TextOf("deviceID"),
		Name:     doc.TextOf("deviceName"),
		Location: doc.TextOf("deviceLocation"),
		Model:    doc.TextOf("model"),
		Firmware: doc.TextOf("firmwareVersion"),
	}
	if info.ID == "" {
		return DeviceInfo{}, fmt.Errorf("%w: DeviceInfo missing deviceID", ErrBadDocument)
	}
	return info, nil
}

// isSupportRe matches the capability manifest's isSupport<Feature> flags.
var isSupportRe = regexp.MustCompile(`^isSupport(\w+)$`)

// ParseCapabilities extracts the supported feature names from a
// /Smart/capabilities document. Only flags with text "true" count.
func ParseCapabilities(doc *Element) ([]string, error) {
	if doc == nil || doc.Name != "SmartCap" {
		return nil, fmt.Errorf("%w: expected SmartCap document", ErrBadDocument)
	}

	var features []string
	for _, child := range doc.Children {
		m := isSupportRe.FindStringSubmatch(child.Name)
		if m == nil {
			continue
		}
		if doc.TextOf(child.Name) == "true" {
			features = append(features, m[1])
		}
	}
	return features, nil
}

// PixelPoint is a coordinate in the device's reference screen space,
// top-left origin as reported on the wire.
type PixelPoint struct {
	X int
	Y int
}

// LineDetectionSettings is the parsed state of a LineDetection settings
// document, still in device pixel coordinates.
type LineDetectionSettings struct {
	Enabled   bool
	RefWidth  int
	RefHeight int
	Lines     [][]PixelPoint
}

// FieldDetectionSettings is the parsed state of a FieldDetection settings
// document, still in device pixel coordinates.
type FieldDetectionSettings struct {
	Enabled   bool
	RefWidth  int
	RefHeight int
	Regions   [][]PixelPoint
}

// featureBody returns the first <feature> element under a <featureList>
// document root, the shape every smart-settings document shares.
func featureBody(doc *Element, feature string) (*Element, error) {
	if doc == nil || doc.Name != feature+"List" {
		return nil, fmt.Errorf("%w: expected %sList document", ErrBadDocument, feature)
	}
	body := doc.Find(feature)
	if body == nil {
		return nil, fmt.Errorf("%w: %sList has no %s entry", ErrBadDocument, feature, feature)
	}
	return body, nil
}

// referenceSize extracts the normalized screen dimensions that pixel
// coordinates in the same document are relative to.
func referenceSize(body *Element) (width, height int, err error) {
	nss := body.Find("normalizedScreenSize")
	if nss == nil {
		return 0, 0, fmt.Errorf("%w: missing normalizedScreenSize", ErrBadDocument)
	}

	width, err = strconv.Atoi(nss.TextOf("normalizedScreenWidth"))
	if err == nil && width > 0 {
		height, err = strconv.Atoi(nss.TextOf("normalizedScreenHeight"))
	}
	if err != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid normalizedScreenSize", ErrBadDocument)
	}
	return width, height, nil
}

// coordinates extracts every <Coordinates> pair under an item's
// coordinate-list elements.
func coordinates(item *Element, listName, entryName string) ([]PixelPoint, error) {
	var points []PixelPoint
	for _, list := range item.FindAll(listName) {
		for _, coord := range list.FindAll(entryName) {
			x, errX := strconv.Atoi(coord.TextOf("positionX"))
			y, errY := strconv.Atoi(coord.TextOf("positionY"))
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("%w: malformed %s position", ErrBadDocument, entryName)
			}
			points = append(points, PixelPoint{X: x, Y: y})
		}
	}
	return points, nil
}

// ParseLineDetection parses a LineDetection settings document.
// Each line item must carry exactly two endpoints.
func ParseLineDetection(doc *Element) (LineDetectionSettings, error) {
	body, err := featureBody(doc, FeatureLineDetection)
	if err != nil {
		return LineDetectionSettings{}, err
	}

	settings := LineDetectionSettings{
		Enabled: body.TextOf("enabled") == "true",
	}
	settings.RefWidth, settings.RefHeight, err = referenceSize(body)
	if err != nil {
		return LineDetectionSettings{}, err
	}

	for _, list := range body.FindAll("LineItemList") {
		for _, item := range list.FindAll("LineItem") {
			points, err := coordinates(item, "CoordinatesList", "Coordinates")
			if err != nil {
				return LineDetectionSettings{}, err
			}
			if len(points) != 2 {
				return LineDetectionSettings{}, fmt.Errorf(
					"%w: line item has %d endpoints, want 2", ErrBadDocument, len(points))
			}
			settings.Lines = append(settings.Lines, points)
		}
	}

	return settings, nil
}

// ParseFieldDetection parses a FieldDetection settings document.
// Regions are polygons with at least three vertices.
func ParseFieldDetection(doc *Element) (FieldDetectionSettings, error) {
	body, err := featureBody(doc, FeatureFieldDetection)
	if err != nil {
		return FieldDetectionSettings{}, err
	}

	settings := FieldDetectionSettings{
		Enabled: body.TextOf("enabled") == "true",
	}
	settings.RefWidth, settings.RefHeight, err = referenceSize(body)
	if err != nil {
		return FieldDetectionSettings{}, err
	}

	for _, list := range body.FindAll("FieldDetectionRegionList") {
		for _, region := range list.FindAll("FieldDetectionRegion") {
			points, err := coordinates(region, "RegionCoordinatesList", "RegionCoordinates")
			if err != nil {
				return FieldDetectionSettings{}, err
			}
			if len(points) < 3 {
				return FieldDetectionSettings{}, fmt.Errorf(
					"%w: region has %d vertices, want at least 3", ErrBadDocument, len(points))
			}
			settings.Regions = append(settings.Regions, points)
		}
	}

	return settings, nil
}

// SetEnabled rewrites the enabled flag inside a fetched settings document so
// it can be PUT back unchanged otherwise. The document root must be the
// feature's list element.
func SetEnabled(doc *Element, feature string, enabled bool) error {
	body, err := featureBody(doc, feature)
	if err != nil {
		return err
	}

	value := "false"
	if enabled {
		value = "true"
	}
	if !body.SetText("enabled", value) {
		return fmt.Errorf("%w: %s settings missing enabled element", ErrBadDocument, feature)
	}
	return nil
}

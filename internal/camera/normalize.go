package camera

import (
	"fmt"

	"github.com/nerrad567/camwatch/internal/isapi"
)

// normalizePoint converts a device pixel coordinate into canonical
// normalized space. The device origin is top-left with y increasing
// downward; the canonical origin is bottom-left, so the vertical axis flips.
func normalizePoint(p isapi.PixelPoint, refWidth, refHeight int) Point {
	return Point{
		X: float64(p.X) / float64(refWidth),
		Y: 1 - float64(p.Y)/float64(refHeight),
	}
}

// normalizeLine converts one two-endpoint line from pixel to normalized space.
func normalizeLine(pts []isapi.PixelPoint, refWidth, refHeight int) [2]Point {
	return [2]Point{
		normalizePoint(pts[0], refWidth, refHeight),
		normalizePoint(pts[1], refWidth, refHeight),
	}
}

// normalizeRegion converts a polygon from pixel to normalized space.
func normalizeRegion(pts []isapi.PixelPoint, refWidth, refHeight int) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = normalizePoint(p, refWidth, refHeight)
	}
	return out
}

// assembleStatus parses the fetched per-feature settings documents into one
// canonical DetectionStatus. Unknown feature kinds are ignored. A parse
// failure on a known kind fails the whole assembly so the caller can keep
// the previous cached status.
func assembleStatus(docs map[string]*isapi.Element) (DetectionStatus, error) {
	var status DetectionStatus

	for feature, doc := range docs {
		switch feature {
		case isapi.FeatureLineDetection:
			settings, err := isapi.ParseLineDetection(doc)
			if err != nil {
				return DetectionStatus{}, fmt.Errorf("parsing %s settings: %w", feature, err)
			}
			line := &LineStatus{Enabled: settings.Enabled}
			for _, pts := range settings.Lines {
				line.Lines = append(line.Lines,
					normalizeLine(pts, settings.RefWidth, settings.RefHeight))
			}
			status.Line = line

		case isapi.FeatureFieldDetection:
			settings, err := isapi.ParseFieldDetection(doc)
			if err != nil {
				return DetectionStatus{}, fmt.Errorf("parsing %s settings: %w", feature, err)
			}
			field := &FieldStatus{Enabled: settings.Enabled}
			for _, pts := range settings.Regions {
				field.Regions = append(field.Regions,
					normalizeRegion(pts, settings.RefWidth, settings.RefHeight))
			}
			status.Field = field
		}
	}

	return status, nil
}

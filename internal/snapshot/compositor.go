package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"

	"github.com/nerrad567/camwatch/internal/camera"
	"github.com/nerrad567/camwatch/internal/infrastructure/logging"
)

// Stroke sizing for the detection overlay. Wide renders keep the vendor's
// heavy stroke; smaller renders thin it so the line stays proportionate.
const (
	wideOutputWidth    = 800
	wideStrokeWidth    = 20
	thinStrokeWidth    = 10
	defaultJPEGQuality = 90
)

// overlayColor is the translucent red used for detection lines.
var overlayColor = color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0x80}

// Source is what the compositor needs from the engine: the raw snapshot and
// a read-only view of the cached line-detection status.
type Source interface {
	Snapshot(ctx context.Context, id string) (contentType string, data []byte, err error)
	LineStatus(id string) (*camera.LineStatus, bool)
}

// Image is a rendered snapshot ready to serve.
type Image struct {
	ContentType string
	Data        []byte
}

// Compositor renders annotated device snapshots: fetch, rescale, overlay
// the cached detection geometry, re-encode. Any stage failure rejects the
// whole render; a partial image is never returned.
type Compositor struct {
	source  Source
	quality int
	log     *logging.Logger
}

// NewCompositor creates a compositor over the engine. A quality of zero
// falls back to the default JPEG quality.
func NewCompositor(source Source, quality int, log *logging.Logger) *Compositor {
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}
	return &Compositor{source: source, quality: quality, log: log}
}

// Render fetches the device's current snapshot and composes the output
// image. A width or height of zero means unspecified: with one given the
// other derives from the native aspect ratio, with neither the native size
// is kept. The result uses the same image format as the device's snapshot.
func (c *Compositor) Render(ctx context.Context, id string, width, height int) (*Image, error) {
	_, data, err := c.source.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: device %s: %w", ErrDecodeFailed, id, err)
	}

	native := src.Bounds()
	outW, outH := outputSize(native.Dx(), native.Dy(), width, height)
	if outW < 1 || outH < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, outW, outH)
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, native, draw.Src, nil)

	if line, ok := c.source.LineStatus(id); ok && line.Enabled {
		drawLines(dst, line.Lines, strokeWidth(outW))
	}

	c.log.Debug("snapshot rendered",
		"device_id", id, "format", format, "width", outW, "height", outH)

	return c.encode(dst, format)
}

// outputSize derives the output dimensions, preserving the native aspect
// ratio when only one side is requested.
func outputSize(nativeW, nativeH, width, height int) (int, int) {
	switch {
	case width == 0 && height == 0:
		return nativeW, nativeH
	case height == 0:
		return width, int(math.Round(float64(nativeH) / float64(nativeW) * float64(width)))
	case width == 0:
		return int(math.Round(float64(nativeW) / float64(nativeH) * float64(height))), height
	default:
		return width, height
	}
}

// strokeWidth picks the overlay stroke for the output width.
func strokeWidth(outputWidth int) int {
	if outputWidth >= wideOutputWidth {
		return wideStrokeWidth
	}
	return thinStrokeWidth
}

// drawLines strokes every cached line segment onto dst. Normalized
// endpoints map straight to output pixels (x·W, y·H); the normalized space
// and the raster share the same convention, so no axis flip happens here.
// Segments are stamped into one mask first so overlapping strokes blend
// once, matching a single translucent pass.
func drawLines(dst *image.RGBA, lines [][2]camera.Point, stroke int) {
	bounds := dst.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	mask := image.NewAlpha(bounds)
	radius := float64(stroke) / 2
	for _, line := range lines {
		x0 := line[0].X * w
		y0 := line[0].Y * h
		x1 := line[1].X * w
		y1 := line[1].Y * h
		stampSegment(mask, x0, y0, x1, y1, radius)
	}

	draw.DrawMask(dst, bounds, image.NewUniform(overlayColor), image.Point{}, mask, image.Point{}, draw.Over)
}

// stampSegment marks every pixel within radius of the segment opaque in the
// mask.
func stampSegment(mask *image.Alpha, x0, y0, x1, y1, radius float64) {
	minX := int(math.Floor(math.Min(x0, x1) - radius))
	maxX := int(math.Ceil(math.Max(x0, x1) + radius))
	minY := int(math.Floor(math.Min(y0, y1) - radius))
	maxY := int(math.Ceil(math.Max(y0, y1) + radius))

	b := mask.Bounds()
	for y := max(minY, b.Min.Y); y <= min(maxY, b.Max.Y-1); y++ {
		for x := max(minX, b.Min.X); x <= min(maxX, b.Max.X-1); x++ {
			if segmentDistance(float64(x)+0.5, float64(y)+0.5, x0, y0, x1, y1) <= radius {
				mask.SetAlpha(x, y, color.Alpha{A: 0xFF})
			}
		}
	}
}

// segmentDistance returns the distance from point (px,py) to the segment
// (x0,y0)-(x1,y1).
func segmentDistance(px, py, x0, y0, x1, y1 float64) float64 {
	dx := x1 - x0
	dy := y1 - y0
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((px-x0)*dx + (py-y0)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	cx := x0 + t*dx
	cy := y0 + t*dy
	return math.Hypot(px-cx, py-cy)
}

// encode writes the raster back out in the snapshot's original format.
func (c *Compositor) encode(img image.Image, format string) (*Image, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
		}
		return &Image{ContentType: "image/png", Data: buf.Bytes()}, nil
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
		}
		return &Image{ContentType: "image/jpeg", Data: buf.Bytes()}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrEncodeFailed, format)
	}
}

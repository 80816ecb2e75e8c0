package snapshot

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/nerrad567/camwatch/internal/camera"
	"github.com/nerrad567/camwatch/internal/infrastructure/logging"
)

type fakeSource struct {
	contentType string
	data        []byte
	err         error
	line        *camera.LineStatus
}

func (f *fakeSource) Snapshot(context.Context, string) (string, []byte, error) {
	return f.contentType, f.data, f.err
}

func (f *fakeSource) LineStatus(string) (*camera.LineStatus, bool) {
	return f.line, f.line != nil
}

func testLogger() *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// whiteJPEG renders an all-white JPEG of the given size.
func whiteJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func whitePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeResult(t *testing.T, img *Image) image.Image {
	t.Helper()
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return decoded
}

func TestRender_AspectPreservingResize(t *testing.T) {
	src := &fakeSource{contentType: "image/jpeg", data: whiteJPEG(t, 800, 600)}
	c := NewCompositor(src, 0, testLogger())

	tests := []struct {
		name           string
		width, height  int
		wantW, wantH   int
	}{
		{"width only derives height", 200, 0, 200, 150},
		{"height only derives width", 0, 300, 400, 300},
		{"both given used exactly", 100, 100, 100, 100},
		{"neither keeps native size", 0, 0, 800, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.Render(context.Background(), "cam-a", tt.width, tt.height)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if out.ContentType != "image/jpeg" {
				t.Errorf("ContentType = %q, want image/jpeg", out.ContentType)
			}
			b := decodeResult(t, out).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("output = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRender_LineOverlay(t *testing.T) {
	// A diagonal from normalized (0,1) to (1,0) on a 500x500 render lands on
	// the pixel diagonal (0,500)-(500,0).
	src := &fakeSource{
		contentType: "image/png",
		data:        whitePNG(t, 500, 500),
		line: &camera.LineStatus{
			Enabled: true,
			Lines:   [][2]camera.Point{{{X: 0, Y: 1}, {X: 1, Y: 0}}},
		},
	}
	c := NewCompositor(src, 0, testLogger())

	out, err := c.Render(context.Background(), "cam-a", 500, 500)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", out.ContentType)
	}

	img := decodeResult(t, out)

	// The segment midpoint sits at (250,250): translucent red over white
	// keeps red full and pulls green/blue down.
	r, g, b, _ := img.At(250, 250).RGBA()
	if !(r > g && r > b) {
		t.Errorf("pixel on line = (%d,%d,%d), want red dominant", r>>8, g>>8, b>>8)
	}
	if g>>8 > 230 {
		t.Errorf("pixel on line green = %d, want visibly darkened", g>>8)
	}

	// Far from the segment the image stays white.
	r, g, b, _ = img.At(450, 450).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("pixel off line = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestRender_DisabledLineNotDrawn(t *testing.T) {
	src := &fakeSource{
		contentType: "image/png",
		data:        whitePNG(t, 100, 100),
		line: &camera.LineStatus{
			Enabled: false,
			Lines:   [][2]camera.Point{{{X: 0, Y: 1}, {X: 1, Y: 0}}},
		},
	}
	c := NewCompositor(src, 0, testLogger())

	out, err := c.Render(context.Background(), "cam-a", 0, 0)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	img := decodeResult(t, out)
	r, g, b, _ := img.At(50, 50).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("pixel = (%d,%d,%d), want untouched white", r>>8, g>>8, b>>8)
	}
}

func TestRender_SourceErrorPropagates(t *testing.T) {
	wantErr := errors.New("device offline")
	c := NewCompositor(&fakeSource{err: wantErr}, 0, testLogger())

	if _, err := c.Render(context.Background(), "cam-a", 0, 0); !errors.Is(err, wantErr) {
		t.Errorf("Render() error = %v, want source error", err)
	}
}

func TestRender_UndecodableSnapshot(t *testing.T) {
	c := NewCompositor(&fakeSource{contentType: "image/jpeg", data: []byte("junk")}, 0, testLogger())

	if _, err := c.Render(context.Background(), "cam-a", 0, 0); !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("Render() error = %v, want ErrDecodeFailed", err)
	}
}

func TestStrokeWidth_Threshold(t *testing.T) {
	if got := strokeWidth(1920); got != wideStrokeWidth {
		t.Errorf("strokeWidth(1920) = %d, want %d", got, wideStrokeWidth)
	}
	if got := strokeWidth(500); got != thinStrokeWidth {
		t.Errorf("strokeWidth(500) = %d, want %d", got, thinStrokeWidth)
	}
}

func TestOutputSize(t *testing.T) {
	tests := []struct {
		nativeW, nativeH, reqW, reqH, wantW, wantH int
	}{
		{800, 600, 200, 0, 200, 150},
		{800, 600, 0, 300, 400, 300},
		{800, 600, 0, 0, 800, 600},
		{800, 600, 640, 480, 640, 480},
		{1920, 1080, 960, 0, 960, 540},
	}
	for _, tt := range tests {
		w, h := outputSize(tt.nativeW, tt.nativeH, tt.reqW, tt.reqH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("outputSize(%d,%d,%d,%d) = %dx%d, want %dx%d",
				tt.nativeW, tt.nativeH, tt.reqW, tt.reqH, w, h, tt.wantW, tt.wantH)
		}
	}
}

package isapi

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecode_SimpleDocument(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<DeviceInfo version="2.0" xmlns="http://www.std-cgi.com/ver20/XMLSchema">
  <deviceName>Front Door</deviceName>
  <deviceID>cam-01</deviceID>
</DeviceInfo>`

	doc, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if doc.Name != "DeviceInfo" {
		t.Errorf("root name = %q, want DeviceInfo", doc.Name)
	}
	if len(doc.Attrs) != 2 {
		t.Errorf("len(Attrs) = %d, want 2", len(doc.Attrs))
	}
	if got := doc.TextOf("deviceName"); got != "Front Door" {
		t.Errorf("TextOf(deviceName) = %q, want Front Door", got)
	}
	if got := doc.TextOf("deviceID"); got != "cam-01" {
		t.Errorf("TextOf(deviceID) = %q, want cam-01", got)
	}
}

func TestDecode_RepeatedElements(t *testing.T) {
	input := `<list><item>a</item><item>b</item><other>c</other></list>`

	doc, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	items := doc.FindAll("item")
	if len(items) != 2 {
		t.Fatalf("FindAll(item) = %d elements, want 2", len(items))
	}
	if items[0].Text != "a" || items[1].Text != "b" {
		t.Errorf("item order = %q, %q, want a, b", items[0].Text, items[1].Text)
	}
	if doc.Find("missing") != nil {
		t.Error("Find(missing) != nil")
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated", "<a><b></b>"},
		{"empty", ""},
		{"garbage", "not xml at all < > &"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, ErrBadDocument) {
				t.Errorf("Decode(%q) error = %v, want ErrBadDocument", tt.input, err)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	input := `<LineDetectionList><LineDetection><id>1</id><enabled>true</enabled></LineDetection></LineDetectionList>`

	doc, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	again, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode(encoded) error = %v", err)
	}

	if again.Name != "LineDetectionList" {
		t.Errorf("round-trip root = %q, want LineDetectionList", again.Name)
	}
	body := again.Find("LineDetection")
	if body == nil {
		t.Fatal("round-trip lost LineDetection element")
	}
	if got := body.TextOf("enabled"); got != "true" {
		t.Errorf("round-trip enabled = %q, want true", got)
	}
}

func TestSetText(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<a><enabled>true</enabled></a>`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !doc.SetText("enabled", "false") {
		t.Fatal("SetText(enabled) = false, want true")
	}
	if got := doc.TextOf("enabled"); got != "false" {
		t.Errorf("enabled = %q after SetText, want false", got)
	}
	if doc.SetText("missing", "x") {
		t.Error("SetText(missing) = true, want false")
	}
}

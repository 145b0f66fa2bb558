package roadshape

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/osm"
)

func TestDefaultScheme(t *testing.T) {
	scheme := DefaultScheme()
	for value, highway := range highwaysTypes {
		style, ok := scheme.Match(osm.Tags{{Key: "highway", Value: value}})
		if !ok {
			t.Errorf("Default scheme should have style for '%s'", value)
			continue
		}
		if style.Highway != highway || style.DefaultWidth <= 0 {
			t.Errorf("Style for '%s' should have positive width, but got %+v", value, style)
		}
	}
	motorway, _ := scheme.Match(osm.Tags{{Key: "highway", Value: "motorway"}})
	residential, _ := scheme.Match(osm.Tags{{Key: "highway", Value: "residential"}})
	if motorway.Priority <= residential.Priority {
		t.Errorf("Motorway should be drawn above residential road, but got priorities %f and %f", motorway.Priority, residential.Priority)
	}
	if _, ok := scheme.Match(osm.Tags{{Key: "highway", Value: "bus_stop"}}); ok {
		t.Errorf("Unknown highway value should not be matched")
	}
	if _, ok := scheme.Match(osm.Tags{{Key: "building", Value: "yes"}}); ok {
		t.Errorf("Way without highway tag should not be matched")
	}
}

func TestParseScheme(t *testing.T) {
	data := []byte(`
roads:
  - highway: primary
    default_width: 12.5
    color: "#ffdd88"
    border_color: "#aa8833"
    priority: 40
`)
	scheme, err := ParseScheme(data)
	if err != nil {
		t.Fatal(err)
	}
	style, ok := scheme.Match(osm.Tags{{Key: "highway", Value: "primary"}})
	if !ok {
		t.Fatalf("Primary road should be matched")
	}
	if style.DefaultWidth != 12.5 || style.Priority != 40 {
		t.Errorf("Style should have width %f and priority %f, but got %+v", 12.5, 40.0, style)
	}
	if style.Color.Hex() != "#ffdd88" || style.BorderColor.Hex() != "#aa8833" {
		t.Errorf("Colors should be parsed, but got %s and %s", style.Color.Hex(), style.BorderColor.Hex())
	}
	if _, ok := scheme.Match(osm.Tags{{Key: "highway", Value: "secondary"}}); ok {
		t.Errorf("Secondary road should not be matched")
	}
}

func TestParseSchemeErrors(t *testing.T) {
	cases := []string{
		"roads: [",
		"roads:\n  - highway: highway_to_hell\n    default_width: 1\n    color: \"#000000\"\n    border_color: \"#000000\"\n",
		"roads:\n  - highway: primary\n    default_width: 0\n    color: \"#000000\"\n    border_color: \"#000000\"\n",
		"roads:\n  - highway: primary\n    default_width: 1\n    color: \"black\"\n    border_color: \"#000000\"\n",
		"roads:\n  - highway: primary\n    default_width: 1\n    color: \"#000000\"\n    border_color: \"\"\n",
	}
	for _, data := range cases {
		if _, err := ParseScheme([]byte(data)); err == nil {
			t.Errorf("Scheme '%s' should not be parsed", data)
		}
	}
}

func TestLoadScheme(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "scheme.yml")
	err := os.WriteFile(fname, defaultSchemeYAML, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	scheme, err := LoadScheme(fname)
	if err != nil {
		t.Fatal(err)
	}
	if len(scheme.styles) != len(highwaysTypes) {
		t.Errorf("Scheme should have %d styles, but got %d", len(highwaysTypes), len(scheme.styles))
	}
	if _, err := LoadScheme(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("Missing scheme file should be reported")
	}
}

func TestWithAlpha(t *testing.T) {
	c := withAlpha(mustHex("#ff8000"), 0.5)
	if c.R != 0xff || c.G != 0x80 || c.B != 0 || c.A != 128 {
		t.Errorf("Color should be %v, but got %v", [4]uint8{0xff, 0x80, 0, 128}, c)
	}
}

package roadshape

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

//go:embed schemes/default.yml
var defaultSchemeYAML []byte

// mutedColor is used for bridges and embankments borders
var mutedColor = mustHex("#666666")

// Style is the drawing style of the road
type Style struct {
	Color        colorful.Color
	BorderColor  colorful.Color
	DefaultWidth float64 // meters
	Priority     float64
	Highway      HighwayType
}

// StyleMatcher finds drawing style for the road tags
type StyleMatcher interface {
	Match(tags osm.Tags) (*Style, bool)
}

type schemeRoad struct {
	Highway      string  `yaml:"highway"`
	Color        string  `yaml:"color"`
	BorderColor  string  `yaml:"border_color"`
	DefaultWidth float64 `yaml:"default_width"`
	Priority     float64 `yaml:"priority"`
}

type schemeFile struct {
	Roads []schemeRoad `yaml:"roads"`
}

// Scheme is the set of road styles keyed by `highway` tag value
type Scheme struct {
	styles map[HighwayType]*Style
}

// ParseScheme parses YAML road scheme
func ParseScheme(data []byte) (*Scheme, error) {
	raw := schemeFile{}
	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal scheme")
	}
	scheme := Scheme{
		styles: make(map[HighwayType]*Style, len(raw.Roads)),
	}
	for _, road := range raw.Roads {
		highway := getHighwayType(road.Highway)
		if highway == 0 {
			return nil, fmt.Errorf("Unknown highway value '%s' in scheme", road.Highway)
		}
		if road.DefaultWidth <= 0 {
			return nil, fmt.Errorf("Default width for '%s' should be positive, got %f", road.Highway, road.DefaultWidth)
		}
		fill, err := colorful.Hex(road.Color)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse color for '%s'", road.Highway)
		}
		border, err := colorful.Hex(road.BorderColor)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse border color for '%s'", road.Highway)
		}
		scheme.styles[highway] = &Style{
			Highway:      highway,
			DefaultWidth: road.DefaultWidth,
			Color:        fill,
			BorderColor:  border,
			Priority:     road.Priority,
		}
	}
	return &scheme, nil
}

// LoadScheme reads YAML road scheme from file
func LoadScheme(fname string) (*Scheme, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read scheme file")
	}
	return ParseScheme(data)
}

// DefaultScheme returns scheme embedded into the package
func DefaultScheme() *Scheme {
	scheme, err := ParseScheme(defaultSchemeYAML)
	if err != nil {
		panic(fmt.Sprintf("Default scheme is broken: %s", err.Error()))
	}
	return scheme
}

// Match returns style for the `highway` tag value
func (scheme *Scheme) Match(tags osm.Tags) (*Style, bool) {
	highway := getHighwayType(tags.Find("highway"))
	if highway == 0 {
		return nil, false
	}
	style, ok := scheme.styles[highway]
	return style, ok
}

func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// withAlpha returns non-premultiplied color with given opacity
func withAlpha(c colorful.Color, opacity float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(opacity*255 + 0.5)}
}

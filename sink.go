package roadshape

import (
	"image/color"

	"github.com/gogpu/gg"
	"github.com/paulmach/orb"
)

// polygonPath returns closed path through the points
func polygonPath(points ...orb.Point) *gg.Path {
	path := gg.NewPath()
	for i, pt := range points {
		if i == 0 {
			path.MoveTo(pt.X(), pt.Y())
			continue
		}
		path.LineTo(pt.X(), pt.Y())
	}
	path.Close()
	return path
}

// ringPath converts closed ring into path. Closing point is dropped if it repeats the first one
func ringPath(ring orb.Ring) *gg.Path {
	if len(ring) > 1 && ring[len(ring)-1].Equal(ring[0]) {
		ring = ring[:len(ring)-1]
	}
	return polygonPath(ring...)
}

// Sink accepts drawing primitives. Implementations are append-only
type Sink interface {
	// Line strokes polyline with butt caps and round joins. Empty dash means solid line
	Line(points orb.LineString, stroke color.Color, width float64, dash []float64)
	// FilledPath fills the path
	FilledPath(path *gg.Path, fill color.Color)
	// StrokedPath strokes the path without filling it
	StrokedPath(path *gg.Path, stroke color.Color, width float64)
	// Circle fills the disc
	Circle(center orb.Point, radius float64, fill color.Color)
}

type PrimitiveType uint16

const (
	PRIMITIVE_LINE = PrimitiveType(iota + 1)
	PRIMITIVE_FILLED_PATH
	PRIMITIVE_STROKED_PATH
	PRIMITIVE_CIRCLE
)

func (iotaIdx PrimitiveType) String() string {
	return [...]string{"line", "filled_path", "stroked_path", "circle"}[iotaIdx-1]
}

// Primitive is a single recorded drawing primitive
type Primitive struct {
	Color  color.Color
	Points orb.LineString
	Path   *gg.Path
	Dash   []float64
	Center orb.Point
	Width  float64
	Radius float64
	Type   PrimitiveType
}

// Recorder is a Sink which keeps all primitives in memory
type Recorder struct {
	Primitives []Primitive
}

func (rec *Recorder) Line(points orb.LineString, stroke color.Color, width float64, dash []float64) {
	rec.Primitives = append(rec.Primitives, Primitive{
		Type:   PRIMITIVE_LINE,
		Points: points.Clone(),
		Color:  stroke,
		Width:  width,
		Dash:   append([]float64(nil), dash...),
	})
}

func (rec *Recorder) FilledPath(path *gg.Path, fill color.Color) {
	rec.Primitives = append(rec.Primitives, Primitive{
		Type:  PRIMITIVE_FILLED_PATH,
		Path:  path.Clone(),
		Color: fill,
	})
}

func (rec *Recorder) StrokedPath(path *gg.Path, stroke color.Color, width float64) {
	rec.Primitives = append(rec.Primitives, Primitive{
		Type:  PRIMITIVE_STROKED_PATH,
		Path:  path.Clone(),
		Color: stroke,
		Width: width,
	})
}

func (rec *Recorder) Circle(center orb.Point, radius float64, fill color.Color) {
	rec.Primitives = append(rec.Primitives, Primitive{
		Type:   PRIMITIVE_CIRCLE,
		Center: center,
		Radius: radius,
		Color:  fill,
	})
}

// Filter returns recorded primitives of given type
func (rec *Recorder) Filter(primitiveType PrimitiveType) []Primitive {
	result := []Primitive{}
	for _, primitive := range rec.Primitives {
		if primitive.Type == primitiveType {
			result = append(result, primitive)
		}
	}
	return result
}

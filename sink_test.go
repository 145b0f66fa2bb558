package roadshape

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/recording"
	"github.com/gogpu/gg/svg"
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
)

// pathVerbs returns verbs of the path
func pathVerbs(path *gg.Path) []gg.PathVerb {
	verbs := []gg.PathVerb{}
	path.Iterate(func(verb gg.PathVerb, coords []float64) {
		verbs = append(verbs, verb)
	})
	return verbs
}

// pathPoints returns all points of the path including control ones
func pathPoints(path *gg.Path) []orb.Point {
	points := []orb.Point{}
	path.Iterate(func(verb gg.PathVerb, coords []float64) {
		for i := 0; i+1 < len(coords); i += 2 {
			points = append(points, orb.Point{coords[i], coords[i+1]})
		}
	})
	return points
}

func TestRingPath(t *testing.T) {
	path := ringPath(orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}})
	correct := []gg.PathVerb{gg.MoveTo, gg.LineTo, gg.LineTo, gg.Close}
	if diff := cmp.Diff(correct, pathVerbs(path)); diff != "" {
		t.Errorf("Ring path verbs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]orb.Point{{0, 0}, {1, 0}, {1, 1}}, pathPoints(path)); diff != "" {
		t.Errorf("Ring path points mismatch (-want +got):\n%s", diff)
	}
}

func TestPolygonPath(t *testing.T) {
	// Coinciding first and last corners are kept as is
	path := polygonPath(orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{1, 1}, orb.Point{0, 0})
	correct := []gg.PathVerb{gg.MoveTo, gg.LineTo, gg.LineTo, gg.LineTo, gg.Close}
	if diff := cmp.Diff(correct, pathVerbs(path)); diff != "" {
		t.Errorf("Polygon path verbs mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	line := orb.LineString{{0, 0}, {1, 1}}
	dash := []float64{2, 2}
	rec.Line(line, color.Black, 3, dash)
	rec.Circle(orb.Point{1, 1}, 2, color.White)
	path := polygonPath(orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{1, 1})
	rec.FilledPath(path, color.White)
	line[0] = orb.Point{5, 5}
	dash[0] = 10
	path.LineTo(7, 7)
	if !rec.Primitives[0].Points[0].Equal(orb.Point{0, 0}) || rec.Primitives[0].Dash[0] != 2 {
		t.Errorf("Recorder should keep copies of the input, but got %+v", rec.Primitives[0])
	}
	if rec.Primitives[2].Path.NumVerbs() != 4 {
		t.Errorf("Recorded path should have %d verbs, but got %d", 4, rec.Primitives[2].Path.NumVerbs())
	}
	if len(rec.Filter(PRIMITIVE_CIRCLE)) != 1 || len(rec.Filter(PRIMITIVE_STROKED_PATH)) != 0 {
		t.Errorf("Filter should return primitives of given type only")
	}
}

func TestCanvasSinkBackends(t *testing.T) {
	for _, name := range []string{BackendRaster, BackendSVG} {
		if !recording.IsRegistered(name) {
			t.Errorf("Backend '%s' should be registered", name)
		}
	}
}

func TestCanvasSinkSVG(t *testing.T) {
	sink := NewCanvasSink(100, 50)
	sink.Line(orb.LineString{{0, 0}, {10, 0}}, color.NRGBA{R: 0xff, A: 0xff}, 4, defaultLaneDash)
	sink.Line(orb.LineString{{0, 0}}, color.Black, 4, nil)
	sink.Circle(orb.Point{5, 5}, 2.5, color.NRGBA{G: 0xff, A: 0x80})
	path := gg.NewPath()
	path.MoveTo(0, 0)
	path.CubicTo(1, 0, 2, 1, 2, 2)
	path.Close()
	sink.FilledPath(path, color.NRGBA{B: 0xff, A: 0xff})
	sink.StrokedPath(path, color.Transparent, 1)

	buf := &bytes.Buffer{}
	_, err := sink.Export(buf, BackendSVG)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := svg.Parse(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if doc.Width != 100 || doc.Height != 50 {
		t.Errorf("SVG size should be %dx%d, but got %fx%f", 100, 50, doc.Width, doc.Height)
	}
	// Background, line, circle, filled and stroked paths
	if len(doc.Elements) != 5 {
		t.Fatalf("SVG should have %d elements, but got %d:\n%s", 5, len(doc.Elements), buf.String())
	}
	background, ok := doc.Elements[0].(*svg.RectElement)
	if !ok || background.W != 100 || background.Attrs.Fill != "#ffffff" {
		t.Errorf("First element should be white background, but got %+v", doc.Elements[0])
	}

	paths := make([]*svg.PathElement, 0, 4)
	for _, element := range doc.Elements[1:] {
		pathElement, ok := element.(*svg.PathElement)
		if !ok {
			t.Fatalf("Element should be path, but got %T", element)
		}
		paths = append(paths, pathElement)
	}

	line := paths[0]
	if line.D != "M 0,0 L 10,0" {
		t.Errorf("Line data should be %s, but got %s", "M 0,0 L 10,0", line.D)
	}
	if line.Attrs.Stroke != "#ff0000" || line.Attrs.Fill != "none" || line.Attrs.StrokeWidth != 4 {
		t.Errorf("Line should be stroked red with width 4, but got %+v", line.Attrs)
	}
	if line.Attrs.StrokeCap != "butt" || line.Attrs.StrokeJoin != "round" {
		t.Errorf("Line should have butt caps and round joins, but got %s and %s", line.Attrs.StrokeCap, line.Attrs.StrokeJoin)
	}
	if !strings.Contains(buf.String(), `stroke-dasharray="7,7"`) {
		t.Errorf("Lane dash should be written, but got:\n%s", buf.String())
	}
	if strings.Count(buf.String(), "stroke-dasharray") != 1 {
		t.Errorf("Dash should be cleared after the dashed line, but got:\n%s", buf.String())
	}

	circle := paths[1]
	if circle.Attrs.Fill != "#00ff00" || math.Abs(circle.Attrs.FillOpacity-0x8080/65535.0) > 1e-6 {
		t.Errorf("Circle should be half transparent green, but got %+v", circle.Attrs)
	}
	circlePath, err := gg.ParseSVGPath(circle.D)
	if err != nil {
		t.Fatal(err)
	}
	start := pathPoints(circlePath)[0]
	if math.Abs(vecLength(subVec(start, orb.Point{5, 5}))-2.5) > eps {
		t.Errorf("Circle path should start on the circle, but got %v", start)
	}

	filled := paths[2]
	if filled.D != "M 0,0 C 1,0 2,1 2,2 Z" || filled.Attrs.Fill != "#0000ff" {
		t.Errorf("Filled path should be blue cubic, but got %s with %+v", filled.D, filled.Attrs)
	}
	parsed, err := gg.ParseSVGPath(filled.D)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pathPoints(path), pathPoints(parsed)); diff != "" {
		t.Errorf("Path data should keep the points (-want +got):\n%s", diff)
	}

	stroked := paths[3]
	if stroked.Attrs.Stroke != "none" || stroked.Attrs.Fill != "none" {
		t.Errorf("Transparent stroke should not be painted, but got %+v", stroked.Attrs)
	}
}

func TestCanvasSinkPNG(t *testing.T) {
	sink := NewCanvasSink(64, 64)
	sink.Line(orb.LineString{{4, 4}, {60, 4}, {60, 60}}, color.Black, 3, defaultLaneDash)
	sink.Circle(orb.Point{32, 32}, 8, color.NRGBA{R: 0xff, A: 0xff})
	path := ringPath(orb.Ring{{10, 40}, {20, 40}, {20, 50}, {10, 40}})
	sink.FilledPath(path, color.NRGBA{B: 0xff, A: 0xff})
	sink.StrokedPath(path, color.Black, 1)

	buf := &bytes.Buffer{}
	_, err := sink.Export(buf, BackendRaster)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Errorf("Image size should be %dx%d, but got %v", 64, 64, img.Bounds())
	}
	r, g, b, _ := img.At(32, 32).RGBA()
	if r < 0xc000 || g > 0x4000 || b > 0x4000 {
		t.Errorf("Circle center should be red, but got %v", img.At(32, 32))
	}
	r, g, b, _ = img.At(2, 60).RGBA()
	if r < 0xf000 || g < 0xf000 || b < 0xf000 {
		t.Errorf("Empty area should be white, but got %v", img.At(2, 60))
	}
}

func TestCanvasSinkSave(t *testing.T) {
	sink := NewCanvasSink(16, 16)
	sink.Circle(orb.Point{8, 8}, 4, color.Black)
	dir := t.TempDir()
	for _, fname := range []string{"out.png", "out.svg"} {
		err := sink.Save(filepath.Join(dir, fname))
		if err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(filepath.Join(dir, fname))
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("File '%s' should not be empty", fname)
		}
	}
	if err := sink.Save(filepath.Join(dir, "out.bmp")); err == nil {
		t.Errorf("Unknown extension should not be saved")
	}
}

func TestSVGBackendClip(t *testing.T) {
	backend := &SVGBackend{}
	err := backend.Begin(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	square := polygonPath(orb.Point{0, 0}, orb.Point{5, 0}, orb.Point{5, 5}, orb.Point{0, 5})
	backend.Save()
	backend.SetClip(square, recording.FillRuleNonZero)
	backend.FillPath(square, recording.NewSolidBrush(gg.Black), recording.FillRuleEvenOdd)
	backend.Restore()
	backend.FillPath(square, recording.NewSolidBrush(gg.Black), recording.FillRuleNonZero)
	if backend.Len() != 3 {
		t.Fatalf("Backend should have %d elements, but got %d", 3, backend.Len())
	}

	buf := &bytes.Buffer{}
	_, err = backend.WriteTo(buf)
	if err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	if strings.Count(output, `clip-path="url(#clip1)"`) != 1 {
		t.Errorf("Only the path inside saved state should be clipped, but got:\n%s", output)
	}
	if !strings.Contains(output, `fill-rule="evenodd"`) {
		t.Errorf("Even-odd rule should be written, but got:\n%s", output)
	}
	doc, err := svg.Parse(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	// Clip path definitions are not drawable elements
	if len(doc.Elements) != 2 {
		t.Errorf("SVG should have %d drawable elements, but got %d", 2, len(doc.Elements))
	}

	if err := backend.Begin(0, 10); err == nil {
		t.Errorf("Empty canvas should not be accepted")
	}
}

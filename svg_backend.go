package roadshape

import (
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/recording"
	"github.com/gogpu/gg/text"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

var (
	_ recording.WriterBackend = (*SVGBackend)(nil)
	_ recording.FileBackend   = (*SVGBackend)(nil)
)

func init() {
	if !recording.IsRegistered(BackendSVG) {
		recording.Register(BackendSVG, func() recording.Backend {
			return &SVGBackend{}
		})
	}
}

type svgElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []svgElement `xml:",any"`
}

type svgDocument struct {
	XMLName  xml.Name     `xml:"svg"`
	Xmlns    string       `xml:"xmlns,attr"`
	Width    string       `xml:"width,attr"`
	Height   string       `xml:"height,attr"`
	ViewBox  string       `xml:"viewBox,attr"`
	Elements []svgElement `xml:",any"`
}

// SVGBackend is the recording backend which turns played back commands into SVG elements.
// Paths come from the recorder already transformed, so transform commands are not applied again
type SVGBackend struct {
	width    int
	height   int
	elements []svgElement
	// clip is the id of active clip path, empty if none
	clip      string
	clipStack []string
	clipCount int
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// brushColor returns color of the solid brush. Gradients are approximated by their first stop
func brushColor(brush recording.Brush) gg.RGBA {
	switch br := brush.(type) {
	case recording.SolidBrush:
		return br.Color
	case *recording.LinearGradientBrush:
		if len(br.Stops) > 0 {
			return br.Stops[0].Color
		}
	case *recording.RadialGradientBrush:
		if len(br.Stops) > 0 {
			return br.Stops[0].Color
		}
	case *recording.SweepGradientBrush:
		if len(br.Stops) > 0 {
			return br.Stops[0].Color
		}
	}
	return gg.Black
}

// paintAttrs returns hex color and opacity attributes for the brush
func paintAttrs(name string, brush recording.Brush) []xml.Attr {
	c := brushColor(brush)
	if c.A <= 0 {
		return []xml.Attr{attr(name, "none")}
	}
	converted := colorful.Color{R: c.R, G: c.G, B: c.B}
	attrs := []xml.Attr{attr(name, converted.Clamped().Hex())}
	if c.A < 1 {
		attrs = append(attrs, attr(name+"-opacity", formatFloat(c.A)))
	}
	return attrs
}

// pathData returns SVG path data of the path
func pathData(path *gg.Path) string {
	var builder strings.Builder
	path.Iterate(func(verb gg.PathVerb, coords []float64) {
		if builder.Len() > 0 {
			builder.WriteByte(' ')
		}
		switch verb {
		case gg.MoveTo:
			builder.WriteString("M")
		case gg.LineTo:
			builder.WriteString("L")
		case gg.QuadTo:
			builder.WriteString("Q")
		case gg.CubicTo:
			builder.WriteString("C")
		case gg.Close:
			builder.WriteString("Z")
		}
		for i := 0; i+1 < len(coords); i += 2 {
			builder.WriteByte(' ')
			builder.WriteString(formatFloat(coords[i]) + "," + formatFloat(coords[i+1]))
		}
	})
	return builder.String()
}

var (
	svgLineCaps  = map[recording.LineCap]string{recording.LineCapButt: "butt", recording.LineCapRound: "round", recording.LineCapSquare: "square"}
	svgLineJoins = map[recording.LineJoin]string{recording.LineJoinMiter: "miter", recording.LineJoinRound: "round", recording.LineJoinBevel: "bevel"}
	svgFillRules = map[recording.FillRule]string{recording.FillRuleNonZero: "nonzero", recording.FillRuleEvenOdd: "evenodd"}
)

func strokeAttrs(stroke recording.Stroke) []xml.Attr {
	attrs := []xml.Attr{
		attr("stroke-width", formatFloat(stroke.Width)),
		attr("stroke-linecap", svgLineCaps[stroke.Cap]),
		attr("stroke-linejoin", svgLineJoins[stroke.Join]),
	}
	if stroke.Join == recording.LineJoinMiter && stroke.MiterLimit > 0 {
		attrs = append(attrs, attr("stroke-miterlimit", formatFloat(stroke.MiterLimit)))
	}
	if len(stroke.DashPattern) > 0 {
		values := make([]string, len(stroke.DashPattern))
		for i, value := range stroke.DashPattern {
			values[i] = formatFloat(value)
		}
		attrs = append(attrs, attr("stroke-dasharray", strings.Join(values, ",")))
		if stroke.DashOffset != 0 {
			attrs = append(attrs, attr("stroke-dashoffset", formatFloat(stroke.DashOffset)))
		}
	}
	return attrs
}

func (backend *SVGBackend) add(name string, attrs ...xml.Attr) {
	if backend.clip != "" {
		attrs = append(attrs, attr("clip-path", "url(#"+backend.clip+")"))
	}
	backend.elements = append(backend.elements, svgElement{XMLName: xml.Name{Local: name}, Attrs: attrs})
}

func (backend *SVGBackend) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("Canvas size should be positive, got %dx%d", width, height)
	}
	backend.width = width
	backend.height = height
	backend.elements = backend.elements[:0]
	backend.clip = ""
	backend.clipStack = backend.clipStack[:0]
	backend.clipCount = 0
	return nil
}

func (backend *SVGBackend) End() error {
	return nil
}

func (backend *SVGBackend) Save() {
	backend.clipStack = append(backend.clipStack, backend.clip)
}

func (backend *SVGBackend) Restore() {
	if len(backend.clipStack) == 0 {
		return
	}
	backend.clip = backend.clipStack[len(backend.clipStack)-1]
	backend.clipStack = backend.clipStack[:len(backend.clipStack)-1]
}

func (backend *SVGBackend) SetTransform(m recording.Matrix) {}

func (backend *SVGBackend) SetClip(path *gg.Path, rule recording.FillRule) {
	backend.clipCount++
	id := fmt.Sprintf("clip%d", backend.clipCount)
	backend.elements = append(backend.elements, svgElement{
		XMLName: xml.Name{Local: "clipPath"},
		Attrs:   []xml.Attr{attr("id", id)},
		Children: []svgElement{{
			XMLName: xml.Name{Local: "path"},
			Attrs:   []xml.Attr{attr("d", pathData(path)), attr("clip-rule", svgFillRules[rule])},
		}},
	})
	backend.clip = id
}

func (backend *SVGBackend) ClearClip() {
	backend.clip = ""
}

func (backend *SVGBackend) FillPath(path *gg.Path, brush recording.Brush, rule recording.FillRule) {
	attrs := []xml.Attr{attr("d", pathData(path))}
	attrs = append(attrs, paintAttrs("fill", brush)...)
	if rule == recording.FillRuleEvenOdd {
		attrs = append(attrs, attr("fill-rule", svgFillRules[rule]))
	}
	backend.add("path", attrs...)
}

func (backend *SVGBackend) StrokePath(path *gg.Path, brush recording.Brush, stroke recording.Stroke) {
	attrs := []xml.Attr{attr("d", pathData(path)), attr("fill", "none")}
	attrs = append(attrs, paintAttrs("stroke", brush)...)
	attrs = append(attrs, strokeAttrs(stroke)...)
	backend.add("path", attrs...)
}

func (backend *SVGBackend) FillRect(rect recording.Rect, brush recording.Brush) {
	attrs := []xml.Attr{
		attr("x", formatFloat(rect.X())),
		attr("y", formatFloat(rect.Y())),
		attr("width", formatFloat(rect.Width())),
		attr("height", formatFloat(rect.Height())),
	}
	attrs = append(attrs, paintAttrs("fill", brush)...)
	backend.add("rect", attrs...)
}

// DrawImage is not supported: road drawing never emits images
func (backend *SVGBackend) DrawImage(img image.Image, src, dst recording.Rect, opts recording.ImageOptions) {
	Logger().Debug("SVG backend skips image", "width", dst.Width(), "height", dst.Height())
}

// DrawText is not supported: road drawing never emits text
func (backend *SVGBackend) DrawText(s string, x, y float64, face text.Face, brush recording.Brush) {
	Logger().Debug("SVG backend skips text", "text", s)
}

// Len returns number of top-level elements drawn so far
func (backend *SVGBackend) Len() int {
	return len(backend.elements)
}

// WriteTo writes SVG document
func (backend *SVGBackend) WriteTo(w io.Writer) (int64, error) {
	doc := svgDocument{
		Xmlns:    "http://www.w3.org/2000/svg",
		Width:    strconv.Itoa(backend.width),
		Height:   strconv.Itoa(backend.height),
		ViewBox:  fmt.Sprintf("0 0 %d %d", backend.width, backend.height),
		Elements: backend.elements,
	}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, errors.Wrap(err, "Can't marshal SVG")
	}
	n, err := fmt.Fprintf(w, "%s%s\n", xml.Header, data)
	if err != nil {
		return int64(n), errors.Wrap(err, "Can't write SVG")
	}
	return int64(n), nil
}

// SaveToFile writes SVG document into file
func (backend *SVGBackend) SaveToFile(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	_, err = backend.WriteTo(file)
	return err
}

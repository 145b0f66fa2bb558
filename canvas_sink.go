package roadshape

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/recording"
	_ "github.com/gogpu/gg/recording/backends/raster"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const (
	// BackendRaster renders recording into PNG image
	BackendRaster = "raster"
	// BackendSVG renders recording into SVG document
	BackendSVG = "svg"
)

var _ Sink = (*CanvasSink)(nil)

var backendByExt = map[string]string{
	".png": BackendRaster,
	".svg": BackendSVG,
}

// CanvasSink records primitives on white canvas. The recording is played back
// into any registered backend, so one drawing produces both PNG and SVG outputs
type CanvasSink struct {
	rec *recording.Recorder
}

// NewCanvasSink creates white canvas of given size in pixels
func NewCanvasSink(width, height int) *CanvasSink {
	rec := recording.NewRecorder(width, height)
	rec.ClearWithColor(gg.White)
	rec.SetLineCap(recording.LineCapButt)
	rec.SetLineJoin(recording.LineJoinRound)
	return &CanvasSink{rec: rec}
}

func solidBrush(c color.Color) recording.Brush {
	return recording.NewSolidBrush(gg.FromColor(c))
}

func (sink *CanvasSink) Line(points orb.LineString, stroke color.Color, width float64, dash []float64) {
	if len(points) < 2 {
		return
	}
	sink.rec.MoveTo(points[0].X(), points[0].Y())
	for _, pt := range points[1:] {
		sink.rec.LineTo(pt.X(), pt.Y())
	}
	sink.rec.SetStrokeStyle(solidBrush(stroke))
	sink.rec.SetLineWidth(width)
	if len(dash) > 0 {
		sink.rec.SetDash(dash...)
		defer sink.rec.ClearDash()
	}
	sink.rec.Stroke()
}

// tracePath replays path verbs into the recorder
func (sink *CanvasSink) tracePath(path *gg.Path) {
	path.Iterate(func(verb gg.PathVerb, coords []float64) {
		switch verb {
		case gg.MoveTo:
			sink.rec.MoveTo(coords[0], coords[1])
		case gg.LineTo:
			sink.rec.LineTo(coords[0], coords[1])
		case gg.QuadTo:
			sink.rec.QuadraticTo(coords[0], coords[1], coords[2], coords[3])
		case gg.CubicTo:
			sink.rec.CubicTo(coords[0], coords[1], coords[2], coords[3], coords[4], coords[5])
		case gg.Close:
			sink.rec.ClosePath()
		}
	})
}

func (sink *CanvasSink) FilledPath(path *gg.Path, fill color.Color) {
	sink.tracePath(path)
	sink.rec.SetFillStyle(solidBrush(fill))
	sink.rec.Fill()
}

func (sink *CanvasSink) StrokedPath(path *gg.Path, stroke color.Color, width float64) {
	sink.tracePath(path)
	sink.rec.SetStrokeStyle(solidBrush(stroke))
	sink.rec.SetLineWidth(width)
	sink.rec.Stroke()
}

func (sink *CanvasSink) Circle(center orb.Point, radius float64, fill color.Color) {
	sink.rec.DrawCircle(center.X(), center.Y(), radius)
	sink.rec.SetFillStyle(solidBrush(fill))
	sink.rec.Fill()
}

// Recording returns commands drawn so far. Drawing may be continued afterwards
func (sink *CanvasSink) Recording() *recording.Recording {
	return sink.rec.FinishRecording()
}

// Render plays the recording back into the registered backend
func (sink *CanvasSink) Render(backendName string) (recording.Backend, error) {
	backend, err := recording.NewBackend(backendName)
	if err != nil {
		return nil, errors.Wrap(err, "Can't create backend")
	}
	err = sink.Recording().Playback(backend)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't play recording back into '%s'", backendName)
	}
	return backend, nil
}

// Export renders the drawing with the backend and writes the result
func (sink *CanvasSink) Export(w io.Writer, backendName string) (int64, error) {
	backend, err := sink.Render(backendName)
	if err != nil {
		return 0, err
	}
	writer, ok := backend.(recording.WriterBackend)
	if !ok {
		return 0, fmt.Errorf("Backend '%s' can't write output", backendName)
	}
	n, err := writer.WriteTo(w)
	if err != nil {
		return n, errors.Wrapf(err, "Can't write '%s' output", backendName)
	}
	return n, nil
}

// Save writes the drawing into file. Backend is chosen by the file extension: '.png' or '.svg'
func (sink *CanvasSink) Save(fname string) error {
	ext := strings.ToLower(filepath.Ext(fname))
	backendName, ok := backendByExt[ext]
	if !ok {
		return fmt.Errorf("Output extension '%s' is not handled", ext)
	}
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	_, err = sink.Export(file, backendName)
	return err
}

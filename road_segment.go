package roadshape

import (
	"image/color"

	"github.com/gogpu/gg"
	"github.com/paulmach/orb"
)

// DefaultMaxExtension is the maximum distance between segment start point and the join apex
const DefaultMaxExtension = 100.0

// SegmentBoundary is the set of junction boundary points of one road segment.
// All of them are unset for freshly created segment and are filled during junction resolution
type SegmentBoundary struct {
	// Points where left/right offset edge meets the neighbour's edge
	LeftConnection  OptionalPoint
	RightConnection OptionalPoint
	// Points where the opposite edge would hit if mirrored across the segment
	LeftProjection  OptionalPoint
	RightProjection OptionalPoint
	// Final boundary points: nearer of connection and projection
	LeftOuter  OptionalPoint
	RightOuter OptionalPoint
	// Apex of the join and its clamped version
	PointMiddle OptionalPoint
	PointA      OptionalPoint
}

// RoadSegment is a straight piece of the roadbed between two points
type RoadSegment struct {
	Lanes  []Lane
	Point1 orb.Point
	Point2 orb.Point

	// turned is the unit vector perpendicular to Point2 - Point1
	turned      orb.Point
	RightVector orb.Point
	LeftVector  orb.Point
	Width       float64

	maxExtension float64
	SegmentBoundary
}

// NewRoadSegment creates road segment from point1 to point2. If lanes are empty width is 1
func NewRoadSegment(point1, point2 orb.Point, lanes []Lane, scale float64) *RoadSegment {
	seg := RoadSegment{
		Point1:       point1,
		Point2:       point2,
		Lanes:        make([]Lane, len(lanes)),
		Width:        1,
		maxExtension: DefaultMaxExtension,
	}
	copy(seg.Lanes, lanes)
	if width := lanesWidth(lanes, scale); len(lanes) > 0 && width > 0 {
		seg.Width = width
	}
	seg.turned = perpendicular(normalize(subVec(point2, point1)))
	seg.RightVector = scaleVec(seg.turned, seg.Width/2)
	seg.LeftVector = scaleVec(seg.turned, -seg.Width/2)
	return &seg
}

// Angle returns angle between segment direction and X axis in [0, 2*Pi)
func (seg *RoadSegment) Angle() float64 {
	return computeAngle(subVec(seg.Point2, seg.Point1))
}

// rightEdge returns two points of the right offset edge line
func (seg *RoadSegment) rightEdge() (orb.Point, orb.Point) {
	return addVec(seg.Point1, seg.RightVector), addVec(seg.Point2, seg.RightVector)
}

// leftEdge returns two points of the left offset edge line
func (seg *RoadSegment) leftEdge() (orb.Point, orb.Point) {
	return addVec(seg.Point1, seg.LeftVector), addVec(seg.Point2, seg.LeftVector)
}

// Update recomputes projections, outer points and apex from currently known connections
func (seg *RoadSegment) Update() {
	seg.SegmentBoundary = seg.resolve(seg.SegmentBoundary)
}

// resolve is the single step of the boundary fixed-point computation.
// Points which can't be derived from the known connections are carried over from the input
func (seg *RoadSegment) resolve(in SegmentBoundary) SegmentBoundary {
	out := in
	if in.LeftConnection.Valid {
		out.RightProjection = somePoint(subVec(addVec(in.LeftConnection.Point, seg.RightVector), seg.LeftVector))
	}
	if in.RightConnection.Valid {
		out.LeftProjection = somePoint(addVec(subVec(in.RightConnection.Point, seg.RightVector), seg.LeftVector))
	}
	if !in.LeftConnection.Valid || !in.RightConnection.Valid {
		return out
	}

	a := vecLength(subVec(in.RightConnection.Point, seg.Point1))
	b := vecLength(subVec(out.RightProjection.Point, seg.Point1))
	if a > b {
		out.RightOuter = in.RightConnection
		out.LeftOuter = out.LeftProjection
	} else {
		out.RightOuter = out.RightProjection
		out.LeftOuter = in.LeftConnection
	}
	middle := subVec(out.RightOuter.Point, seg.RightVector)
	out.PointMiddle = somePoint(middle)

	direction := subVec(middle, seg.Point1)
	if vecLength(direction) > seg.maxExtension {
		pointA := addVec(seg.Point1, scaleVec(normalize(direction), seg.maxExtension))
		out.PointA = somePoint(pointA)
		out.RightOuter = somePoint(addVec(pointA, seg.RightVector))
		out.LeftOuter = somePoint(addVec(pointA, seg.LeftVector))
	} else {
		out.PointA = out.PointMiddle
	}
	return out
}

// Draw draws road segment body from the junction connections to the second point
func (seg *RoadSegment) Draw(sink Sink, fill color.Color) {
	if !seg.LeftConnection.Valid || !seg.RightConnection.Valid {
		return
	}
	path := polygonPath(
		addVec(seg.Point2, seg.RightVector),
		addVec(seg.Point2, seg.LeftVector),
		seg.LeftConnection.Point,
		seg.RightConnection.Point,
	)
	sink.FilledPath(path, fill)
}

// entrancePath returns quadrilateral between connections and projections
func (seg *RoadSegment) entrancePath() (*gg.Path, bool) {
	if !seg.LeftConnection.Valid || !seg.RightConnection.Valid {
		return nil, false
	}
	path := polygonPath(
		seg.RightProjection.Point,
		seg.RightConnection.Point,
		seg.LeftProjection.Point,
		seg.LeftConnection.Point,
	)
	return path, true
}

// DrawEntrance draws intersection entrance part
func (seg *RoadSegment) DrawEntrance(sink Sink, fill color.Color) {
	if path, ok := seg.entrancePath(); ok {
		sink.FilledPath(path, fill)
	}
}

// DrawLanes draws lane delimiters from the join apex to the second point
func (seg *RoadSegment) DrawLanes(sink Sink, scale float64, stroke color.Color, dash []float64) {
	if !seg.PointMiddle.Valid || len(seg.Lanes) < 2 {
		return
	}
	offset := 0.0
	for _, lane := range seg.Lanes[:len(seg.Lanes)-1] {
		offset += lane.GetWidth(scale)
		shift := subVec(seg.RightVector, scaleVec(seg.turned, offset))
		sink.Line(orb.LineString{
			addVec(seg.PointMiddle.Point, shift),
			addVec(seg.Point2, shift),
		}, stroke, 2, dash)
	}
}

var (
	debugRight  = color.NRGBA{0xFF, 0x00, 0x00, 0x66}
	debugLeft   = color.NRGBA{0x00, 0x00, 0xFF, 0x66}
	debugAxis   = color.NRGBA{0x00, 0x00, 0x00, 0xFF}
	debugEntry  = color.NRGBA{0x88, 0x00, 0x88, 0xFF}
	debugCenter = color.NRGBA{0x88, 0x88, 0xFF, 0xFF}
)

// DrawDebug draws axis, offset edges and all computed boundary points
func (seg *RoadSegment) DrawDebug(sink Sink) {
	sink.Line(orb.LineString{seg.Point1, seg.Point2}, debugAxis, 1, nil)
	r1, r2 := seg.rightEdge()
	sink.Line(orb.LineString{r1, r2}, debugRight, 0.5, nil)
	l1, l2 := seg.leftEdge()
	sink.Line(orb.LineString{l1, l2}, debugLeft, 0.5, nil)

	markers := []struct {
		point  OptionalPoint
		radius float64
		fill   color.Color
	}{
		{seg.RightConnection, 2.5, debugRight},
		{seg.LeftConnection, 2.5, debugLeft},
		{seg.RightProjection, 1.5, debugRight},
		{seg.LeftProjection, 1.5, debugLeft},
		{seg.PointA, 2, debugAxis},
	}
	for _, marker := range markers {
		if marker.point.Valid {
			sink.Circle(marker.point.Point, marker.radius, marker.fill)
		}
	}
	if path, ok := seg.entrancePath(); ok {
		sink.StrokedPath(path, debugEntry, 0.5)
	}
}

// DrawNormal draws segment as a plain wide line
func (seg *RoadSegment) DrawNormal(sink Sink) {
	sink.Line(orb.LineString{seg.Point1, seg.Point2}, debugCenter, seg.Width, nil)
}

// SetMaxExtension sets the maximum distance between the first point and the join apex
func (seg *RoadSegment) SetMaxExtension(distance float64) {
	if distance > 0 {
		seg.maxExtension = distance
	}
}

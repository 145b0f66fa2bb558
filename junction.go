package roadshape

import (
	"image/color"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

var (
	junctionInnerColor    = color.NRGBA{0xFF, 0x88, 0x88, 0xFF}
	junctionEntranceColor = color.NRGBA{0x88, 0xFF, 0x88, 0xFF}
	junctionLaneColor     = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	junctionDebugOuter    = color.NRGBA{0x00, 0x00, 0xFF, 0x33}
	junctionDebugInner    = color.NRGBA{0xFF, 0x00, 0x00, 0x33}
)

// Junction is an intersection of the road segments sharing the same first point.
// Segments are stored by value and resolved by their index in bearing order
type Junction struct {
	NodeID   osm.NodeID
	segments []RoadSegment
}

// NewJunction sorts segments by bearing and resolves boundary points for every pair of
// angularly adjacent segments. Input segments are copied and are not modified
func NewJunction(parts []*RoadSegment) *Junction {
	junction := Junction{
		segments: make([]RoadSegment, len(parts)),
	}
	for i, part := range parts {
		junction.segments[i] = *part
		junction.segments[i].SegmentBoundary = SegmentBoundary{}
	}
	sort.SliceStable(junction.segments, func(i, j int) bool {
		return junction.segments[i].Angle() < junction.segments[j].Angle()
	})
	junction.resolve()
	return &junction
}

// next returns index of angular successor of the index-th segment
func (junction *Junction) next(index int) int {
	if index == len(junction.segments)-1 {
		return 0
	}
	return index + 1
}

// resolve performs two passes over adjacent segments pairs:
// 1. Intersection of the right edge of the segment with the left edge of its successor.
// 2. Projection fallback for pairs where no intersection has been found
func (junction *Junction) resolve() {
	if len(junction.segments) < 2 {
		return
	}
	segs := junction.segments

	for i := range segs {
		j := junction.next(i)
		r1, r2 := segs[i].rightEdge()
		l1, l2 := segs[j].leftEdge()
		connection := OptionalPoint{}
		if intersection, err := intersect(r1, r2, l1, l2); err == nil {
			connection = somePoint(intersection)
		}
		segs[i].RightConnection = connection
		segs[j].LeftConnection = connection
		segs[i].Update()
		segs[j].Update()
	}

	for i := range segs {
		j := junction.next(i)
		segs[i].Update()
		segs[j].Update()
		if !segs[i].RightConnection.Valid && !segs[j].LeftConnection.Valid {
			segs[i].LeftConnection = segs[i].RightProjection
			segs[j].RightConnection = segs[j].LeftProjection
			segs[i].LeftOuter = segs[i].RightProjection
			segs[j].RightOuter = segs[j].LeftProjection
		}
		segs[i].Update()
		segs[j].Update()
	}
}

// Len returns number of segments in the junction
func (junction *Junction) Len() int {
	return len(junction.segments)
}

// Segment returns index-th segment in bearing order
func (junction *Junction) Segment(index int) *RoadSegment {
	return &junction.segments[index]
}

// Segments returns all segments in bearing order
func (junction *Junction) Segments() []*RoadSegment {
	result := make([]*RoadSegment, len(junction.segments))
	for i := range junction.segments {
		result[i] = &junction.segments[i]
	}
	return result
}

// Inner returns polygon through left connections of all segments
func (junction *Junction) Inner() orb.Ring {
	ring := make(orb.Ring, 0, len(junction.segments)+1)
	for _, seg := range junction.segments {
		if seg.LeftConnection.Valid {
			ring = append(ring, seg.LeftConnection.Point)
		}
	}
	return closeRing(ring)
}

// Outline returns outer polygon of the junction: left connection, left outer and right outer point of every segment
func (junction *Junction) Outline() orb.Ring {
	ring := make(orb.Ring, 0, 3*len(junction.segments)+1)
	for _, seg := range junction.segments {
		for _, pt := range []OptionalPoint{seg.LeftConnection, seg.LeftOuter, seg.RightOuter} {
			if pt.Valid {
				ring = append(ring, pt.Point)
			}
		}
	}
	return closeRing(ring)
}

// closeRing closes the ring if it has enough points for a polygon, otherwise returns nil
func closeRing(ring orb.Ring) orb.Ring {
	if len(ring) < 3 {
		return nil
	}
	if !ring[0].Equal(ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	return ring
}

// Draw draws entrances of all segments and the inner polygon
func (junction *Junction) Draw(sink Sink) {
	for i := range junction.segments {
		junction.segments[i].DrawEntrance(sink, junctionEntranceColor)
	}
	if inner := junction.Inner(); inner != nil {
		sink.FilledPath(ringPath(inner), junctionInnerColor)
	}
}

// DrawLanes draws lane delimiters of all segments
func (junction *Junction) DrawLanes(sink Sink, scale float64, stroke color.Color, dash []float64) {
	for i := range junction.segments {
		junction.segments[i].DrawLanes(sink, scale, stroke, dash)
	}
}

// DrawDebug draws outer and inner polygons and debug geometry of every segment
func (junction *Junction) DrawDebug(sink Sink) {
	if outline := junction.Outline(); outline != nil {
		sink.FilledPath(ringPath(outline), junctionDebugOuter)
	}
	if inner := junction.Inner(); inner != nil {
		sink.FilledPath(ringPath(inner), junctionDebugInner)
	}
	for i := range junction.segments {
		junction.segments[i].DrawDebug(sink)
	}
}

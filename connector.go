package roadshape

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

type ConnectorKind uint16

const (
	CONNECTOR_EQUAL_WIDTH = ConnectorKind(iota + 1)
	CONNECTOR_TRANSITION
	CONNECTOR_MULTIWAY
)

func (iotaIdx ConnectorKind) String() string {
	return [...]string{"equal_width", "transition", "multiway"}[iotaIdx-1]
}

// incidence is the road end registered at the node. Index is 0 for the first point and -1 for the last one
type incidence struct {
	road  *Road
	index int
}

// Connector is the join shape of the roads meeting at the same node
type Connector struct {
	NodeID osm.NodeID
	Kind   ConnectorKind
	// Layer is the lowest layer of connected roads
	Layer float64

	connections []incidence
	// point is the projected node
	point orb.Point
	scale float64

	// Transition only: shortened road ends and the patch between them
	ends  [2]orb.Point
	patch *gg.Path
}

// newConnector chooses the join shape by number of connected roads and their widths.
// Nil is returned for a single road end: the road is left open.
// For the transition shape both working lines are shortened near the node
func newConnector(nodeID osm.NodeID, connections []incidence, lines map[*Road]orb.LineString, scale float64) (*Connector, error) {
	if len(connections) == 0 {
		return nil, fmt.Errorf("Should not happen: node %d has no registered road ends", nodeID)
	}
	if len(connections) == 1 {
		return nil, nil
	}
	first := connections[0]
	connector := Connector{
		NodeID:      nodeID,
		Layer:       first.road.Layer,
		connections: connections,
		point:       first.road.Line[endIndex(first.road.Line, first.index)],
		scale:       scale,
	}
	for _, conn := range connections[1:] {
		connector.Layer = math.Min(connector.Layer, conn.road.Layer)
	}
	switch {
	case len(connections) > 2:
		connector.Kind = CONNECTOR_MULTIWAY
	case first.road.Width == connections[1].road.Width:
		connector.Kind = CONNECTOR_EQUAL_WIDTH
	default:
		connector.Kind = CONNECTOR_TRANSITION
		connector.prepareTransition(lines)
	}
	return &connector, nil
}

func (connector *Connector) prepareTransition(lines map[*Road]orb.LineString) {
	conn1, conn2 := connector.connections[0], connector.connections[1]
	length := math.Abs(conn2.road.Width-conn1.road.Width) * connector.scale

	lines[conn1.road] = shortenLine(lines[conn1.road], conn1.index, length)
	lines[conn2.road] = shortenLine(lines[conn2.road], conn2.index, length)
	line1, line2 := lines[conn1.road], lines[conn2.road]
	connector.ends[0] = line1[endIndex(line1, conn1.index)]
	connector.ends[1] = line2[endIndex(line2, conn2.index)]

	points1 := curvePoints(conn1.road.Width, connector.scale, connector.point, connector.ends[0])
	points2 := curvePoints(conn2.road.Width, connector.scale, connector.point, connector.ends[1])

	patch := gg.NewPath()
	patch.MoveTo(points1[0].X(), points1[0].Y())
	patch.CubicTo(points1[1].X(), points1[1].Y(), points2[2].X(), points2[2].Y(), points2[3].X(), points2[3].Y())
	patch.LineTo(points2[0].X(), points2[0].Y())
	patch.CubicTo(points2[1].X(), points2[1].Y(), points1[2].X(), points1[2].Y(), points1[3].X(), points1[3].Y())
	patch.Close()
	connector.patch = patch
}

// curvePoints returns corners of the road end: end+left, center+left, center+right, end+right
func curvePoints(width, scale float64, center, roadEnd orb.Point) [4]orb.Point {
	halfWidth := width / 2 * scale
	direction := normalize(subVec(roadEnd, center))
	left := scaleVec(turnByAngle(direction, math.Pi/2), halfWidth)
	right := scaleVec(turnByAngle(direction, -math.Pi/2), halfWidth)
	return [4]orb.Point{
		addVec(roadEnd, left),
		addVec(center, left),
		addVec(center, right),
		addVec(roadEnd, right),
	}
}

// Point returns projected node of the connector
func (connector *Connector) Point() orb.Point {
	return connector.point
}

// Patch returns the curved quadrilateral of the transition shape. It is nil for other shapes
func (connector *Connector) Patch() *gg.Path {
	return connector.patch
}

// Ends returns shortened road ends of the transition shape
func (connector *Connector) Ends() [2]orb.Point {
	return connector.ends
}

// Len returns number of connected road ends
func (connector *Connector) Len() int {
	return len(connector.connections)
}

// Draw emits the join fill
func (connector *Connector) Draw(sink Sink) {
	switch connector.Kind {
	case CONNECTOR_EQUAL_WIDTH:
		road := connector.connections[0].road
		sink.Circle(connector.point, road.Width*connector.scale/2, road.Style.Color)
	case CONNECTOR_TRANSITION:
		for i, conn := range connector.connections[:2] {
			sink.Circle(connector.ends[i], conn.road.Width*connector.scale/2, conn.road.Style.Color)
		}
		sink.FilledPath(connector.patch, connector.connections[0].road.Style.Color)
	case CONNECTOR_MULTIWAY:
		for _, conn := range connector.connections {
			sink.Circle(connector.point, conn.road.Width*connector.scale/2, conn.road.Style.Color)
		}
	}
}

// DrawBorder emits the join outline. It has to be drawn before any fill of the layer
func (connector *Connector) DrawBorder(sink Sink) {
	switch connector.Kind {
	case CONNECTOR_EQUAL_WIDTH:
		road := connector.connections[0].road
		sink.Circle(connector.point, road.Width*connector.scale/2+1, road.Style.BorderColor)
	case CONNECTOR_TRANSITION:
		sink.StrokedPath(connector.patch, connector.connections[0].road.Style.BorderColor, 2)
	case CONNECTOR_MULTIWAY:
		for _, conn := range connector.connections {
			sink.Circle(connector.point, conn.road.Width*connector.scale/2+1, conn.road.Style.BorderColor)
		}
	}
}

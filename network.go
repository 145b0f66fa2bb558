package roadshape

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Network is the whole road structure: roads and the index of road ends by node
type Network struct {
	roads       []*Road
	connections map[osm.NodeID][]incidence
	// nodeOrder keeps nodes in order of the first registration
	nodeOrder []osm.NodeID

	maxExtension     float64
	borderExtraWidth float64
	laneDash         []float64
	junctionOverlay  bool
	junctionDebug    bool
}

func NewNetwork(options ...func(*Network)) *Network {
	net := &Network{
		connections:      make(map[osm.NodeID][]incidence),
		maxExtension:     DefaultMaxExtension,
		borderExtraWidth: 2,
		laneDash:         defaultLaneDash,
	}
	for _, option := range options {
		option(net)
	}
	return net
}

// WithMaxExtension sets the maximum distance between the node and the join apex of junction segments
func WithMaxExtension(distance float64) func(*Network) {
	return func(net *Network) {
		net.maxExtension = distance
	}
}

// WithBorderExtraWidth sets how much road border is wider than road fill
func WithBorderExtraWidth(extraWidth float64) func(*Network) {
	return func(net *Network) {
		net.borderExtraWidth = extraWidth
	}
}

// WithLaneDash sets dash pattern of lane separators. Empty pattern means solid separators
func WithLaneDash(dash []float64) func(*Network) {
	return func(net *Network) {
		net.laneDash = dash
	}
}

// WithJunctionOverlay enables drawing of resolved junctions on top of every layer
func WithJunctionOverlay(overlay bool) func(*Network) {
	return func(net *Network) {
		net.junctionOverlay = overlay
	}
}

// WithJunctionDebug makes junction overlay draw construction geometry of every junction: edges, connections and projections
func WithJunctionDebug(debug bool) func(*Network) {
	return func(net *Network) {
		net.junctionDebug = debug
	}
}

// Append adds road and registers both of its ends
func (net *Network) Append(road *Road) {
	net.roads = append(net.roads, road)
	net.register(road.FirstNodeID(), incidence{road: road, index: 0})
	net.register(road.LastNodeID(), incidence{road: road, index: -1})
}

func (net *Network) register(nodeID osm.NodeID, conn incidence) {
	if _, ok := net.connections[nodeID]; !ok {
		net.nodeOrder = append(net.nodeOrder, nodeID)
	}
	net.connections[nodeID] = append(net.connections[nodeID], conn)
}

// Roads returns all roads in order of appending
func (net *Network) Roads() []*Road {
	return net.roads
}

// Incidence returns number of road ends registered at the node
func (net *Network) Incidence(nodeID osm.NodeID) int {
	return len(net.connections[nodeID])
}

// scale returns pixels per meter at the first node of the first road
func (net *Network) scale(projector Projector) float64 {
	return projector.Scale(nodePoint(net.roads[0].Nodes[0]))
}

// connectors builds join shapes for every node with two or more road ends.
// Lines are working copies of the road lines: transitions shorten them
func (net *Network) connectors(lines map[*Road]orb.LineString, scale float64) ([]*Connector, error) {
	connectors := make([]*Connector, 0, len(net.nodeOrder))
	for _, nodeID := range net.nodeOrder {
		connector, err := newConnector(nodeID, net.connections[nodeID], lines, scale)
		if err != nil {
			return nil, errors.Wrap(err, "Can't build connector")
		}
		if connector == nil {
			continue
		}
		connectors = append(connectors, connector)
	}
	return connectors, nil
}

// Connectors returns join shapes of the network. Working road lines are created for this call only
func (net *Network) Connectors(projector Projector) ([]*Connector, error) {
	if len(net.roads) == 0 {
		return nil, nil
	}
	return net.connectors(net.workingLines(), net.scale(projector))
}

func (net *Network) workingLines() map[*Road]orb.LineString {
	lines := make(map[*Road]orb.LineString, len(net.roads))
	for _, road := range net.roads {
		lines[road] = road.Line.Clone()
	}
	return lines
}

// junction resolves road segments adjacent to the node
func (net *Network) junction(nodeID osm.NodeID, scale float64) *Junction {
	connections := net.connections[nodeID]
	if len(connections) < 2 {
		return nil
	}
	parts := make([]*RoadSegment, len(connections))
	for i, conn := range connections {
		parts[i] = conn.road.endSegment(conn.road.Line, conn.index, scale)
		parts[i].SetMaxExtension(net.maxExtension)
	}
	junction := NewJunction(parts)
	junction.NodeID = nodeID
	return junction
}

// Junctions returns resolved junction for every node with two or more road ends
func (net *Network) Junctions(projector Projector) []*Junction {
	if len(net.roads) == 0 {
		return nil
	}
	scale := net.scale(projector)
	junctions := []*Junction{}
	for _, nodeID := range net.nodeOrder {
		if junction := net.junction(nodeID, scale); junction != nil {
			junctions = append(junctions, junction)
		}
	}
	return junctions
}

// Draw draws the whole road structure layer by layer. For every layer:
// 1. Road borders
// 2. Connector borders
// 3. Connector fills
// 4. Road fills
// 5. Lane separators
func (net *Network) Draw(sink Sink, projector Projector) error {
	if len(net.roads) == 0 {
		return nil
	}
	scale := net.scale(projector)
	lines := net.workingLines()

	layeredRoads := make(map[float64][]*Road)
	for _, road := range net.roads {
		layeredRoads[road.Layer] = append(layeredRoads[road.Layer], road)
	}

	connectors, err := net.connectors(lines, scale)
	if err != nil {
		return err
	}
	layeredConnectors := make(map[float64][]*Connector)
	for _, connector := range connectors {
		layeredConnectors[connector.Layer] = append(layeredConnectors[connector.Layer], connector)
	}

	layers := maps.Keys(layeredRoads)
	slices.Sort(layers)
	for _, layer := range layers {
		roads := layeredRoads[layer]
		sort.SliceStable(roads, func(i, j int) bool {
			return roads[i].Style.Priority < roads[j].Style.Priority
		})
		layerConnectors := layeredConnectors[layer]
		Logger().Debug("Drawing layer", "layer", layer, "roads", len(roads), "connectors", len(layerConnectors))

		for _, road := range roads {
			road.Draw(sink, lines[road], road.Style.BorderColor, net.borderExtraWidth)
		}
		for _, connector := range layerConnectors {
			connector.DrawBorder(sink)
		}
		for _, connector := range layerConnectors {
			connector.Draw(sink)
		}
		for _, road := range roads {
			road.Draw(sink, lines[road], road.Style.Color, 0)
		}
		for _, road := range roads {
			road.DrawLanes(sink, lines[road], withAlpha(road.Style.BorderColor, 0.5), net.laneDash)
		}

		if net.junctionOverlay || net.junctionDebug {
			for _, connector := range layerConnectors {
				junction := net.junction(connector.NodeID, scale)
				if junction == nil {
					return fmt.Errorf("Should not happen: connector at node %d has no junction", connector.NodeID)
				}
				if net.junctionDebug {
					junction.DrawDebug(sink)
					continue
				}
				junction.Draw(sink)
				junction.DrawLanes(sink, scale, junctionLaneColor, net.laneDash)
			}
		}
	}
	return nil
}

package roadshape

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

var (
	// defaultLaneDash is the dash pattern of lane separators
	defaultLaneDash = []float64{7, 7}
	// embankmentDash is the dash pattern of embankment border
	embankmentDash = []float64{1, 3}
	// embankmentExtraWidth is added to the border width of embankment
	embankmentExtraWidth = 4.0

	// maxLanes is the largest accepted value of `lanes` tag
	maxLanes = 32

	widthRegExp = regexp.MustCompile(`^\s*(\d+\.?\d*)\s*(m)?\s*$`)
)

// Road is a styled road or track on the map
type Road struct {
	Tags  osm.Tags
	Nodes osm.Nodes
	// Line is the projected polyline of the road
	Line  orb.LineString
	Lanes []Lane
	Style *Style
	// Width in meters
	Width float64
	Layer float64
	// scale is pixels per meter at the first node
	scale float64
	ID    osm.WayID
}

// NewRoad creates road from tags and located nodes. Lanes, width and layer are derived from tags:
// malformed values are logged and ignored
func NewRoad(tags osm.Tags, nodes osm.Nodes, style *Style, projector Projector) (*Road, error) {
	return newRoad(0, tags, nodes, style, projector)
}

// NewRoadFromWay creates road from OSM way and its located nodes
func NewRoadFromWay(way *osm.Way, nodes osm.Nodes, style *Style, projector Projector) (*Road, error) {
	return newRoad(way.ID, way.Tags, nodes, style, projector)
}

func newRoad(id osm.WayID, tags osm.Tags, nodes osm.Nodes, style *Style, projector Projector) (*Road, error) {
	if len(nodes) < 2 {
		return nil, fmt.Errorf("Road should have at least 2 nodes, got %d. Way ID: '%d'", len(nodes), id)
	}
	if style == nil {
		return nil, fmt.Errorf("Road style is not provided. Way ID: '%d'", id)
	}
	road := Road{
		ID:    id,
		Tags:  make(osm.Tags, len(tags)),
		Nodes: make(osm.Nodes, len(nodes)),
		Line:  make(orb.LineString, len(nodes)),
		Style: style,
		Width: style.DefaultWidth,
		scale: projector.Scale(nodePoint(nodes[0])),
	}
	copy(road.Tags, tags)
	copy(road.Nodes, nodes)
	for i, node := range nodes {
		road.Line[i] = projector.Project(nodePoint(node))
	}
	road.processTags()
	return &road, nil
}

// nodePoint returns geographic point of the node (lon, lat)
func nodePoint(node *osm.Node) orb.Point {
	return orb.Point{node.Lon, node.Lat}
}

// warnTag logs malformed tag value
func (road *Road) warnTag(tag, value, reason string) {
	Logger().Warn("Provided tag value has been ignored",
		"way_id", int64(road.ID),
		"tag", tag,
		"value", value,
		"reason", reason,
	)
}

// processTags derives lanes, width and layer
func (road *Road) processTags() {
	lanesText := road.Tags.Find("lanes")
	if lanesText != "" {
		lanesNum, err := strconv.Atoi(strings.TrimSpace(lanesText))
		if err != nil || lanesNum <= 0 {
			road.warnTag("lanes", lanesText, "should be a positive integer")
		} else if lanesNum > maxLanes {
			road.warnTag("lanes", lanesText, fmt.Sprintf("should not exceed %d", maxLanes))
		} else {
			// Every lane is a separate value: directions are changed independently
			road.Lanes = make([]Lane, lanesNum)
			for i := range road.Lanes {
				road.Lanes[i] = NewLane()
			}
		}
	}

	if widths, ok := road.perLaneValues("width:lanes"); ok {
		parsed := make([]float64, len(widths))
		valid := true
		for i, text := range widths {
			value, err := parseWidth(text)
			if err != nil {
				road.warnTag("width:lanes", road.Tags.Find("width:lanes"), "should be a list of numbers")
				valid = false
				break
			}
			parsed[i] = value
		}
		if valid {
			for i := range road.Lanes {
				road.Lanes[i].Width = parsed[i]
				road.Lanes[i].HasWidth = true
			}
		}
	}

	if len(road.Lanes) > 0 {
		road.Width = lanesWidth(road.Lanes, 1.0)
	}

	if number, ok := road.lanesCount("lanes:forward"); ok {
		for i := len(road.Lanes) - number; i < len(road.Lanes); i++ {
			road.Lanes[i].setForward(true)
		}
	}
	if number, ok := road.lanesCount("lanes:backward"); ok {
		for i := 0; i < number; i++ {
			road.Lanes[i].setForward(false)
		}
	}

	if turns, ok := road.perLaneValues("turn:lanes"); ok {
		for i, text := range turns {
			road.Lanes[i].Turn = turnTypes[strings.TrimSpace(text)]
		}
	}
	if changes, ok := road.perLaneValues("change:lanes"); ok {
		for i, text := range changes {
			road.Lanes[i].Change = changeTypes[strings.TrimSpace(text)]
		}
	}
	if destinations, ok := road.perLaneValues("destination:lanes"); ok {
		for i, text := range destinations {
			road.Lanes[i].Destination = strings.TrimSpace(text)
		}
	}
	if speeds, ok := road.perLaneValues("minspeed:lanes"); ok {
		for i, text := range speeds {
			value, err := parseFinite(text)
			if err != nil {
				road.warnTag("minspeed:lanes", road.Tags.Find("minspeed:lanes"), "should be a list of finite numbers")
				continue
			}
			road.Lanes[i].MinSpeed = value
			road.Lanes[i].HasMinSpeed = true
		}
	}

	widthText := road.Tags.Find("width")
	if widthText != "" {
		width, err := parseWidth(widthText)
		if err != nil || width <= 0 {
			road.warnTag("width", widthText, "should be a positive number")
		} else {
			road.Width = width
		}
	}

	layerText := road.Tags.Find("layer")
	if layerText != "" {
		layer, err := parseFinite(layerText)
		if err != nil {
			road.warnTag("layer", layerText, "should be a finite number")
		} else {
			road.Layer = layer
		}
	}
}

// perLaneValues splits pipe-separated tag value. Values are returned only if their number matches number of lanes
func (road *Road) perLaneValues(tag string) ([]string, bool) {
	text := road.Tags.Find(tag)
	if text == "" {
		return nil, false
	}
	values := strings.Split(text, "|")
	if len(values) != len(road.Lanes) {
		road.warnTag(tag, text, fmt.Sprintf("has %d values for %d lanes", len(values), len(road.Lanes)))
		return nil, false
	}
	return values, true
}

// lanesCount parses number of lanes for `lanes:forward`/`lanes:backward`. The number is clamped by lanes count
func (road *Road) lanesCount(tag string) (int, bool) {
	text := road.Tags.Find(tag)
	if text == "" {
		return 0, false
	}
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || number <= 0 {
		road.warnTag(tag, text, "should be a positive integer")
		return 0, false
	}
	if number > len(road.Lanes) {
		number = len(road.Lanes)
	}
	return number, true
}

// parseFinite parses number rejecting NaN and infinities
func parseFinite(text string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("Value '%s' is not finite", text)
	}
	return value, nil
}

// parseWidth parses width in meters: "3.5" or "3.5 m"
func parseWidth(text string) (float64, error) {
	found := widthRegExp.FindStringSubmatch(text)
	if found == nil {
		return 0, fmt.Errorf("Can't parse width '%s'", text)
	}
	return strconv.ParseFloat(found[1], 64)
}

var (
	turnTypes = map[string]TurnType{
		"none":          TURN_NONE,
		"merge_to_left": TURN_MERGE_TO_LEFT,
		"slight_left":   TURN_SLIGHT_LEFT,
		"slight_right":  TURN_SLIGHT_RIGHT,
	}
	changeTypes = map[string]ChangeType{
		"not_left":  CHANGE_NOT_LEFT,
		"not_right": CHANGE_NOT_RIGHT,
	}
)

// Scale returns pixels per meter at the first node of the road
func (road *Road) Scale() float64 {
	return road.scale
}

// FirstNodeID returns ID of the first node
func (road *Road) FirstNodeID() osm.NodeID {
	return road.Nodes[0].ID
}

// LastNodeID returns ID of the last node
func (road *Road) LastNodeID() osm.NodeID {
	return road.Nodes[len(road.Nodes)-1].ID
}

// isTagged checks if tag has "yes" value
func (road *Road) isTagged(tag string) bool {
	return road.Tags.Find(tag) == "yes"
}

// Draw strokes the road line. If extraWidth is not zero the border pass is assumed:
// bridges and embankments get muted color and embankments are wider and dashed
func (road *Road) Draw(sink Sink, line orb.LineString, stroke color.Color, extraWidth float64) {
	width := road.Width
	var dash []float64
	if extraWidth != 0 && road.isTagged("bridge") {
		stroke = mutedColor
	}
	if extraWidth != 0 && road.isTagged("embankment") {
		stroke = mutedColor
		width += embankmentExtraWidth
		dash = embankmentDash
	}
	sink.Line(line, stroke, road.scale*width+extraWidth, dash)
}

// DrawLanes draws lane separators as lines parallel to the road line
func (road *Road) DrawLanes(sink Sink, line orb.LineString, stroke color.Color, dash []float64) {
	if len(road.Lanes) < 2 {
		return
	}
	total := lanesWidth(road.Lanes, 1.0)
	cumulative := 0.0
	for _, lane := range road.Lanes[:len(road.Lanes)-1] {
		cumulative += lane.GetWidth(1.0)
		parallelOffset := road.scale * (-road.Width/2 + cumulative/total*road.Width)
		separator := offsetCurve(line, parallelOffset)
		if len(separator) < 2 {
			continue
		}
		sink.Line(separator, stroke, 1, dash)
	}
}

// endSegment returns the segment of the road adjacent to the end point (index 0 or -1) directed away from it
// Roads without lanes are treated as a single lane of the road width
func (road *Road) endSegment(line orb.LineString, index int, scale float64) *RoadSegment {
	lanes := road.Lanes
	if len(lanes) == 0 {
		lanes = []Lane{{Width: road.Width, HasWidth: true, Direction: DIRECTION_UNKNOWN}}
	}
	if index == 0 {
		return NewRoadSegment(line[0], line[1], lanes, scale)
	}
	return NewRoadSegment(line[len(line)-1], line[len(line)-2], lanes, scale)
}

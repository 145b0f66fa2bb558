package roadshape

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

const eps = 1e-9

func pointsEqual(p1, p2 orb.Point, tolerance float64) bool {
	return math.Abs(p1.X()-p2.X()) <= tolerance && math.Abs(p1.Y()-p2.Y()) <= tolerance
}

func lineAsString(l orb.LineString) string {
	agg := []string{}
	for _, pt := range l {
		agg = append(agg, fmt.Sprintf("[%f, %f]", pt.X(), pt.Y()))
	}
	return "[" + strings.Join(agg, ",") + "]"
}

func TestIntersect(t *testing.T) {
	pt, err := intersect(orb.Point{0, 0}, orb.Point{10, 10}, orb.Point{0, 10}, orb.Point{10, 0})
	if err != nil {
		t.Error(err)
	}
	if !pointsEqual(pt, orb.Point{5, 5}, eps) {
		t.Errorf("Intersection should be %v, but got %v", orb.Point{5, 5}, pt)
	}

	// Lines are infinite
	pt, err = intersect(orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{5, 3}, orb.Point{5, 4})
	if err != nil {
		t.Error(err)
	}
	if !pointsEqual(pt, orb.Point{5, 0}, eps) {
		t.Errorf("Intersection should be %v, but got %v", orb.Point{5, 0}, pt)
	}

	_, err = intersect(orb.Point{0, 0}, orb.Point{1, 1}, orb.Point{0, 1}, orb.Point{1, 2})
	if err == nil {
		t.Errorf("Parallel lines should not intersect")
	}
}

func TestOffset(t *testing.T) {
	line := orb.LineString{{10.0, 10.0}, {15.0, 10.0}, {18.0, 15.0}, {18.0, 20.0}, {15.0, 24.0}, {12.0, 24.0}, {10.0, 18.0}, {10.0, 15.0}, {13.0, 12.0}, {15.0, 16.0}}
	distance := 1.0

	leftL := lineAsString(offsetCurve(line, distance))
	rightL := lineAsString(offsetCurve(line, -distance))

	correctLeft := "[[10.000000, 11.000000],[14.433810, 11.000000],[17.000000, 15.276984],[17.000000, 19.666667],[14.500000, 23.000000],[12.720759, 23.000000],[11.000000, 17.837722],[11.000000, 15.414214],[12.726049, 13.688165],[14.105573, 16.447214]]"
	if leftL != correctLeft {
		t.Errorf("Left offset line should be '%s' but got '%s'", correctLeft, leftL)
	}
	correctRight := "[[10.000000, 9.000000],[15.566190, 9.000000],[19.000000, 14.723016],[19.000000, 20.333333],[15.500000, 25.000000],[11.279241, 25.000000],[9.000000, 18.162278],[9.000000, 14.585786],[13.273951, 10.311835],[15.894427, 15.552786]]"
	if rightL != correctRight {
		t.Errorf("Right offset line should be '%s' but got '%s'", correctRight, rightL)
	}
}

func TestOffsetDegenerate(t *testing.T) {
	// Collinear and repeated points
	line := orb.LineString{{0, 0}, {5, 0}, {5, 0}, {10, 0}}
	correct := "[[0.000000, 2.000000],[5.000000, 2.000000],[10.000000, 2.000000]]"
	got := lineAsString(offsetCurve(line, 2))
	if got != correct {
		t.Errorf("Offset line should be '%s' but got '%s'", correct, got)
	}
	if len(offsetCurve(orb.LineString{{1, 1}, {1, 1}}, 2)) != 0 {
		t.Errorf("Offset of zero-length line should be empty")
	}
}

func TestShortenLine(t *testing.T) {
	line := orb.LineString{{0, 0}, {10, 0}, {10, 10}}

	head := shortenLine(line, 0, 4)
	if !pointsEqual(head[0], orb.Point{4, 0}, eps) {
		t.Errorf("First point should be %v, but got %v", orb.Point{4, 0}, head[0])
	}
	tail := shortenLine(line, -1, 3)
	if !pointsEqual(tail[2], orb.Point{10, 7}, eps) {
		t.Errorf("Last point should be %v, but got %v", orb.Point{10, 7}, tail[2])
	}
	if !line[0].Equal(orb.Point{0, 0}) || !line[2].Equal(orb.Point{10, 10}) {
		t.Errorf("Source line should not be modified, but got %v", line)
	}
	if getLength(tail) != 17 {
		t.Errorf("Length of shortened line should be %f, but got %f", 17.0, getLength(tail))
	}
}

func TestComputeAngle(t *testing.T) {
	cases := []struct {
		vec   orb.Point
		angle float64
	}{
		{orb.Point{1, 0}, 0},
		{orb.Point{0, 1}, math.Pi / 2},
		{orb.Point{-1, 0}, math.Pi},
		{orb.Point{0, -1}, 3 * math.Pi / 2},
		{orb.Point{1, -1e-20}, 2*math.Pi - 1e-20},
	}
	for _, c := range cases {
		angle := computeAngle(c.vec)
		if angle < 0 || angle >= 2*math.Pi {
			t.Errorf("Angle of %v should be in [0, 2*Pi), but got %f", c.vec, angle)
		}
		if math.Abs(angle-c.angle) > eps && !(c.angle >= 2*math.Pi-eps && angle == 0) {
			t.Errorf("Angle of %v should be %f, but got %f", c.vec, c.angle, angle)
		}
	}
}

func TestNormalize(t *testing.T) {
	if !normalize(orb.Point{0, 0}).Equal(orb.Point{0, 0}) {
		t.Errorf("Zero vector should stay zero")
	}
	vec := normalize(orb.Point{3, 4})
	if !pointsEqual(vec, orb.Point{0.6, 0.8}, eps) {
		t.Errorf("Normalized vector should be %v, but got %v", orb.Point{0.6, 0.8}, vec)
	}
	if !pointsEqual(turnByAngle(orb.Point{1, 0}, math.Pi/2), perpendicular(orb.Point{1, 0}), eps) {
		t.Errorf("Turn by Pi/2 should match perpendicular")
	}
}

package roadshape

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// OptionalPoint is a point which may be not computed yet
type OptionalPoint struct {
	Point orb.Point
	Valid bool
}

// somePoint wraps point as valid OptionalPoint
func somePoint(p orb.Point) OptionalPoint {
	return OptionalPoint{Point: p, Valid: true}
}

// String returns pretty printed value for OptionalPoint
func (op OptionalPoint) String() string {
	if !op.Valid {
		return "none"
	}
	return fmt.Sprintf("[%f, %f]", op.Point.X(), op.Point.Y())
}

func addVec(p, q orb.Point) orb.Point {
	return orb.Point{p[0] + q[0], p[1] + q[1]}
}

func subVec(p, q orb.Point) orb.Point {
	return orb.Point{p[0] - q[0], p[1] - q[1]}
}

func scaleVec(p orb.Point, k float64) orb.Point {
	return orb.Point{p[0] * k, p[1] * k}
}

func negVec(p orb.Point) orb.Point {
	return orb.Point{-p[0], -p[1]}
}

// vecLength returns Euclidean norm of the vector
func vecLength(p orb.Point) float64 {
	return math.Hypot(p[0], p[1])
}

// normalize returns unit vector of the same direction.
// Zero vector stays zero.
func normalize(p orb.Point) orb.Point {
	l := vecLength(p)
	if l == 0 {
		return orb.Point{0, 0}
	}
	return orb.Point{p[0] / l, p[1] / l}
}

// perpendicular rotates the vector by 90 degrees counter-clockwise
func perpendicular(p orb.Point) orb.Point {
	return orb.Point{-p[1], p[0]}
}

// turnByAngle rotates the vector by given angle (radians)
func turnByAngle(p orb.Point, angle float64) orb.Point {
	sin, cos := math.Sincos(angle)
	return orb.Point{
		p[0]*cos - p[1]*sin,
		p[0]*sin + p[1]*cos,
	}
}

// computeAngle returns angle between vector and X axis in [0, 2*Pi)
func computeAngle(p orb.Point) float64 {
	angle := math.Atan2(p[1], p[0])
	if angle < 0 {
		angle += 2 * math.Pi
	}
	if angle >= 2*math.Pi {
		angle = 0
	}
	return angle
}

// Check if two lines intersects and returns intersection Point
// p1, p2 - first line
// p3, p4 - second line
// Note: lines are infinite, not segments
func intersect(p1, p2, p3, p4 orb.Point) (orb.Point, error) {
	// Calculate the coefficients of the linear equations
	a1 := p2[1] - p1[1]
	b1 := p1[0] - p2[0]
	c1 := a1*p1[0] + b1*p1[1]
	a2 := p4[1] - p3[1]
	b2 := p3[0] - p4[0]
	c2 := a2*p3[0] + b2*p3[1]

	// Calculate the determinant
	det := a1*b2 - a2*b1
	if det == 0 {
		return orb.Point{}, fmt.Errorf("The lines are parallel")
	}

	// Calculate the intersection point
	x := (b2*c1 - b1*c2) / det
	y := (a1*c2 - a2*c1) / det
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return orb.Point{}, fmt.Errorf("The lines are almost parallel")
	}
	return orb.Point{x, y}, nil
}

// offsetCurve returns line shifted by distance to the left (positive distance) or to the right (negative distance).
// Zero-length segments are skipped.
func offsetCurve(line orb.LineString, distance float64) orb.LineString {
	var result orb.LineString
	var segments [][2]orb.Point

	for i := 1; i < len(line); i++ {
		p1 := line[i-1]
		p2 := line[i]
		vec := subVec(p2, p1)
		if vecLength(vec) == 0 {
			continue
		}
		offset := scaleVec(perpendicular(normalize(vec)), distance)
		segments = append(segments, [2]orb.Point{addVec(p1, offset), addVec(p2, offset)})
	}
	if len(segments) == 0 {
		return result
	}

	result = append(result, segments[0][0])
	for i := 1; i < len(segments); i++ {
		seg1 := segments[i-1]
		seg2 := segments[i]
		intersection, err := intersect(seg1[0], seg1[1], seg2[0], seg2[1])
		if err != nil {
			// Collinear neighbours share the offset point
			result = append(result, seg1[1])
			continue
		}
		result = append(result, intersection)
	}
	result = append(result, segments[len(segments)-1][1])
	return result
}

// endIndex converts index which could be negative (counted from the end) into regular one
func endIndex(line orb.LineString, index int) int {
	if index < 0 {
		return len(line) + index
	}
	return index
}

// shortenLine moves the first (index == 0) or the last (index == -1) point of the line
// towards its neighbour by given length. Returns new slice
func shortenLine(line orb.LineString, index int, length float64) orb.LineString {
	result := line.Clone()
	if len(result) < 2 {
		return result
	}
	idx := endIndex(result, index)
	neighbour := 1
	if idx != 0 {
		neighbour = idx - 1
	}
	diff := normalize(subVec(result[neighbour], result[idx]))
	result[idx] = addVec(result[idx], scaleVec(diff, length))
	return result
}

// getLength returns length for given planar line
func getLength(line orb.LineString) float64 {
	totalLength := 0.0
	for i := 1; i < len(line); i++ {
		totalLength += planar.Distance(line[i-1], line[i])
	}
	return totalLength
}

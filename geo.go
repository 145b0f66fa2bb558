package roadshape

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	earthR = 20037508.34
	// tileSize is the size of the map tile in pixels at any zoom level
	tileSize = 256.0
)

// Projector converts geographic points (lon, lat) into planar ones
type Projector interface {
	// Project returns planar point for geographic one
	Project(pt orb.Point) orb.Point
	// Scale returns number of planar units per meter near the geographic point
	Scale(pt orb.Point) float64
}

func epsg3857To4326(x, y float64) (float64, float64) {
	lon := x * 180 / earthR
	lat := math.Atan(math.Exp(y*math.Pi/earthR))*360/math.Pi - 90
	return lon, lat
}

func epsg4326To3857(lon, lat float64) (float64, float64) {
	x := lon * earthR / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * earthR / 180
	return x, y
}

func pointToEuclidean(pt orb.Point) orb.Point {
	euclideanX, euclideanY := epsg4326To3857(pt.Lon(), pt.Lat())
	return orb.Point{euclideanX, euclideanY}
}

func pointToSpherical(pt orb.Point) orb.Point {
	lon, lat := epsg3857To4326(pt.X(), pt.Y())
	return orb.Point{lon, lat}
}

// Flinger projects geographic points into the pixel space of the map:
// Web Mercator (EPSG:3857) scaled for given zoom level, origin at the north-west corner of bounds, Y axis pointing down
type Flinger struct {
	bound orb.Bound
	// Mercator coordinates of the north-west corner
	origin orb.Point
	size   orb.Point
	// ratio is number of pixels per Mercator meter
	ratio float64
	zoom  float64
}

// NewFlinger creates projection for geographic bounds and zoom level
func NewFlinger(bound orb.Bound, zoom float64) *Flinger {
	ratio := tileSize * math.Pow(2, zoom) / (2 * earthR)
	min := pointToEuclidean(bound.Min)
	max := pointToEuclidean(bound.Max)
	return &Flinger{
		bound:  bound,
		origin: orb.Point{min.X(), max.Y()},
		size:   orb.Point{(max.X() - min.X()) * ratio, (max.Y() - min.Y()) * ratio},
		ratio:  ratio,
		zoom:   zoom,
	}
}

// Project returns pixel coordinates of geographic point
func (flinger *Flinger) Project(pt orb.Point) orb.Point {
	euclidean := pointToEuclidean(pt)
	return orb.Point{
		(euclidean.X() - flinger.origin.X()) * flinger.ratio,
		(flinger.origin.Y() - euclidean.Y()) * flinger.ratio,
	}
}

// Unfling returns geographic point for pixel coordinates
func (flinger *Flinger) Unfling(pt orb.Point) orb.Point {
	return pointToSpherical(orb.Point{
		pt.X()/flinger.ratio + flinger.origin.X(),
		flinger.origin.Y() - pt.Y()/flinger.ratio,
	})
}

// Scale returns number of pixels per meter at the latitude of given point
func (flinger *Flinger) Scale(pt orb.Point) float64 {
	return flinger.ratio / math.Cos(pt.Lat()*math.Pi/180)
}

// Size returns size of the map in pixels
func (flinger *Flinger) Size() orb.Point {
	return flinger.size
}

// Bound returns geographic bounds of the map
func (flinger *Flinger) Bound() orb.Bound {
	return flinger.bound
}

// PlanarProjector treats input points as already planar and uses constant scale
type PlanarProjector struct {
	PixelsPerMeter float64
}

func (projector PlanarProjector) Project(pt orb.Point) orb.Point {
	return pt
}

func (projector PlanarProjector) Scale(pt orb.Point) float64 {
	return projector.PixelsPerMeter
}

package roadshape

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

type GeomFormat uint16

const (
	GEOM_FORMAT_WKT = GeomFormat(iota + 1)
	GEOM_FORMAT_GEOJSON
)

func (iotaIdx GeomFormat) String() string {
	return [...]string{"wkt", "geojson"}[iotaIdx-1]
}

// ParseGeomFormat returns WKT format for anything but "geojson"
func ParseGeomFormat(str string) GeomFormat {
	if strings.ToLower(str) == "geojson" {
		return GEOM_FORMAT_GEOJSON
	}
	return GEOM_FORMAT_WKT
}

// Unprojector converts planar points back to geographic ones
type Unprojector interface {
	Unfling(pt orb.Point) orb.Point
}

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(line orb.LineString) string {
	pts2d := make([][]float64, len(line))
	for i := range line {
		pts2d[i] = []float64{line[i].Lon(), line[i].Lat()}
	}
	b, err := geojson.NewLineStringGeometry(pts2d).MarshalJSON()
	if err != nil {
		Logger().Warn("Can't convert geometry to geojson format", "error", err)
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPolygon returns GeoJSON representation of Polygon with the single ring
func PrepareGeoJSONPolygon(ring orb.Ring) string {
	pts2d := make([][]float64, len(ring))
	for i := range ring {
		pts2d[i] = []float64{ring[i].Lon(), ring[i].Lat()}
	}
	b, err := geojson.NewPolygonGeometry([][][]float64{pts2d}).MarshalJSON()
	if err != nil {
		Logger().Warn("Can't convert geometry to geojson format", "error", err)
		return ""
	}
	return string(b)
}

func prepareGeom(geom orb.Geometry, format GeomFormat) string {
	if format == GEOM_FORMAT_GEOJSON {
		switch g := geom.(type) {
		case orb.LineString:
			return PrepareGeoJSONLinestring(g)
		case orb.Ring:
			return PrepareGeoJSONPolygon(g)
		}
	}
	if ring, ok := geom.(orb.Ring); ok {
		return wkt.MarshalString(orb.Polygon{ring})
	}
	return wkt.MarshalString(geom)
}

// ExportToCSV writes roads and resolved junctions of the network into two files:
// 'fname_roads.csv' and 'fname_junctions.csv'
func (net *Network) ExportToCSV(fname string, flinger *Flinger, format GeomFormat) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameRoads := fnameParts[0] + "_roads.csv"
	fnameJunctions := fnameParts[0] + "_junctions.csv"

	err := net.exportRoadsToCSV(fnameRoads, format)
	if err != nil {
		return errors.Wrap(err, "Can't export roads")
	}
	err = ExportJunctionsToCSV(fnameJunctions, net.Junctions(flinger), flinger, format)
	if err != nil {
		return errors.Wrap(err, "Can't export junctions")
	}
	return nil
}

func (net *Network) exportRoadsToCSV(fname string, format GeomFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"osm_way_id", "highway", "source_node", "target_node", "lanes", "width", "layer", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, road := range net.roads {
		geom := make(orb.LineString, len(road.Nodes))
		for i, node := range road.Nodes {
			geom[i] = nodePoint(node)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", road.ID),
			fmt.Sprintf("%s", road.Style.Highway),
			fmt.Sprintf("%d", road.FirstNodeID()),
			fmt.Sprintf("%d", road.LastNodeID()),
			fmt.Sprintf("%d", len(road.Lanes)),
			fmt.Sprintf("%f", road.Width),
			fmt.Sprintf("%f", road.Layer),
			prepareGeom(geom, format),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write road")
		}
	}
	return nil
}

// ExportJunctionsToCSV writes outlines of junctions in geographic coordinates
func ExportJunctionsToCSV(fname string, junctions []*Junction, unprojector Unprojector, format GeomFormat) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"node_id", "segments", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, junction := range junctions {
		outline := junction.Outline()
		if outline == nil {
			Logger().Debug("Junction has no outline", "node_id", int64(junction.NodeID))
			continue
		}
		geom := make(orb.Ring, len(outline))
		for i, pt := range outline {
			geom[i] = unprojector.Unfling(pt)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", junction.NodeID),
			fmt.Sprintf("%d", junction.Len()),
			prepareGeom(geom, format),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write junction")
		}
	}
	return nil
}

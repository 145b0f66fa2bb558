package roadshape

import (
	"context"
	"encoding/xml"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmapi"
	"github.com/pkg/errors"
)

// Fetch downloads OSM data for geographic bounds into the cache file.
// Download is skipped if the cache file already exists, unless update is requested
func Fetch(ctx context.Context, bound orb.Bound, cacheFile string, update bool) error {
	if _, err := os.Stat(cacheFile); err == nil && !update {
		Logger().Info("Using cached data", "filename", cacheFile)
		return nil
	}
	st := time.Now()
	Logger().Info("Downloading data", "min", bound.Min, "max", bound.Max)
	doc, err := osmapi.Map(ctx, &osm.Bounds{
		MinLat: bound.Min.Lat(),
		MaxLat: bound.Max.Lat(),
		MinLon: bound.Min.Lon(),
		MaxLon: bound.Max.Lon(),
	})
	if err != nil {
		return errors.Wrap(err, "Can't download data")
	}
	data, err := xml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "Can't marshal OSM data")
	}
	err = os.WriteFile(cacheFile, data, 0o644)
	if err != nil {
		return errors.Wrap(err, "Can't write cache file")
	}
	Logger().Info("Downloading done", "nodes", len(doc.Nodes), "ways", len(doc.Ways), "elapsed", time.Since(st))
	return nil
}

// ParseBound parses "minlon,minlat,maxlon,maxlat"
func ParseBound(text string) (orb.Bound, error) {
	values, err := parseFloats(text, ",")
	if err != nil {
		return orb.Bound{}, errors.Wrap(err, "Can't parse bounds")
	}
	if len(values) != 4 {
		return orb.Bound{}, errors.Errorf("Bounds should have 4 values, got %d", len(values))
	}
	bound := orb.Bound{
		Min: orb.Point{values[0], values[1]},
		Max: orb.Point{values[2], values[3]},
	}
	if bound.Min.Lon() >= bound.Max.Lon() || bound.Min.Lat() >= bound.Max.Lat() {
		return orb.Bound{}, errors.Errorf("Bounds '%s' are empty", text)
	}
	return bound, nil
}

func parseFloats(text, sep string) ([]float64, error) {
	parts := strings.Split(text, sep)
	values := make([]float64, len(parts))
	for i, part := range parts {
		value, err := parseFinite(part)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

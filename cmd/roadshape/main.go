package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/LdDl/roadshape"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

var (
	tagStr      = flag.String("tags", "", "Set of needed highway tags (separated by commas). Empty means every highway known to the scheme")
	osmFileName = flag.String("file", "", "Filename of OSM file: *.osm, *.xml or *.osm.pbf")
	bboxStr     = flag.String("bbox", "", "Geographic boundaries to download: 'minlon,minlat,maxlon,maxlat'")
	cacheFile   = flag.String("cache", "cache.osm", "Filename for downloaded OSM data")
	update      = flag.Bool("update", false, "Download data even if cache file exists")
	zoom        = flag.Float64("zoom", 18, "Zoom level of the map")
	schemeFile  = flag.String("scheme", "", "Filename of YAML road scheme. Embedded scheme is used if empty")
	out         = flag.String("out", "out.svg", "Filename of output image. Expected extensions: .svg / .png")
	shapes      = flag.String("shapes", "", "Filename of 'Comma-Separated Values' (CSV) formatted file for roads and junctions. E.g.: if file name is 'map.csv' then 2 files will be produced: 'map_roads.csv' and 'map_junctions.csv'")
	geomFormat  = flag.String("geomf", "wkt", "Format of output geometry. Expected values: wkt / geojson")
	junctions   = flag.Bool("junctions", false, "Draw resolved junctions on top of roads")
	debug       = flag.Bool("debug", false, "Draw construction geometry of junctions instead of the overlay")
	verbose     = flag.Bool("verbose", false, "Print loading and drawing progress")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	roadshape.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	err := run()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	if *osmFileName == "" && *bboxStr == "" {
		return fmt.Errorf("Specify either -bbox, or -file")
	}

	options := []func(*roadshape.Loader){roadshape.WithVerbose(*verbose)}
	if *tagStr != "" {
		options = append(options, roadshape.WithHighwayTags(strings.Split(*tagStr, ",")))
	}
	if *schemeFile != "" {
		scheme, err := roadshape.LoadScheme(*schemeFile)
		if err != nil {
			return errors.Wrap(err, "Can't load scheme")
		}
		options = append(options, roadshape.WithScheme(scheme))
	}
	loader := roadshape.NewLoader(options...)

	var bound orb.Bound
	filename := *osmFileName
	if *bboxStr != "" {
		var err error
		bound, err = roadshape.ParseBound(*bboxStr)
		if err != nil {
			return err
		}
		if filename == "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			err = roadshape.Fetch(ctx, bound, *cacheFile, *update)
			if err != nil {
				return err
			}
			filename = *cacheFile
		}
	}

	data, err := loader.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "Can't read OSM data")
	}
	if *bboxStr == "" {
		bound = data.Bound()
	}
	flinger := roadshape.NewFlinger(bound, *zoom)

	net, err := loader.Network(data, flinger, roadshape.WithJunctionOverlay(*junctions), roadshape.WithJunctionDebug(*debug))
	if err != nil {
		return errors.Wrap(err, "Can't prepare road network")
	}

	st := time.Now()
	size := flinger.Size()
	width, height := int(math.Ceil(size.X())), int(math.Ceil(size.Y()))
	roadshape.Logger().Info("Writing output", "filename", *out, "width", width, "height", height)
	sink := roadshape.NewCanvasSink(width, height)
	err = net.Draw(sink, flinger)
	if err != nil {
		return errors.Wrap(err, "Can't draw roads")
	}
	err = sink.Save(*out)
	if err != nil {
		return errors.Wrap(err, "Can't write output")
	}
	roadshape.Logger().Info("Done", "elapsed", time.Since(st))

	if *shapes != "" {
		err = net.ExportToCSV(*shapes, flinger, roadshape.ParseGeomFormat(*geomFormat))
		if err != nil {
			return errors.Wrap(err, "Can't export shapes")
		}
	}
	return nil
}

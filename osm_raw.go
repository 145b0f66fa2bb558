package roadshape

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// OSMData is the set of accepted ways and the nodes they reference
type OSMData struct {
	ways  []*osm.Way
	nodes map[osm.NodeID]*osm.Node
}

// Ways returns number of accepted ways
func (data *OSMData) Ways() int {
	return len(data.ways)
}

// Bound returns geographic bounds of all known nodes
func (data *OSMData) Bound() orb.Bound {
	bound := orb.Bound{}
	first := true
	for _, node := range data.nodes {
		if first {
			bound = nodePoint(node).Bound()
			first = false
			continue
		}
		bound = bound.Extend(nodePoint(node))
	}
	return bound
}

// progress logs loading stages at INFO level in verbose mode and at DEBUG level otherwise
func (loader *Loader) progress(msg string, args ...any) {
	if loader.verbose {
		Logger().Info(msg, args...)
		return
	}
	Logger().Debug(msg, args...)
}

func newScanner(ctx context.Context, filename string, file io.Reader) (OSMScanner, error) {
	ext := filepath.Ext(filename)
	switch ext {
	case ".osm", ".xml":
		return osmxml.New(ctx, file), nil
	case ".pbf":
		return osmpbf.New(ctx, file, 4), nil
	default:
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
}

// accepts checks if way should become a road
func (loader *Loader) accepts(way *osm.Way) bool {
	if len(way.Nodes) < 2 || !loader.cfg.CheckWay(way.Tags) {
		return false
	}
	_, ok := loader.matcher.Match(way.Tags)
	return ok
}

// ReadFile scans OSM file twice: ways first, then nodes referenced by accepted ways
func (loader *Loader) ReadFile(filename string) (*OSMData, error) {
	loader.progress("Opening file", "filename", filename)
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open file")
	}
	defer file.Close()

	/* Process ways */
	st := time.Now()
	ways := []*osm.Way{}
	nodesSeen := make(map[osm.NodeID]struct{})
	{
		scannerWays, err := newScanner(context.Background(), filename, file)
		if err != nil {
			return nil, err
		}
		defer scannerWays.Close()

		for scannerWays.Scan() {
			obj := scannerWays.Object()
			if obj.ObjectID().Type() != osm.TypeWay {
				continue
			}
			way := obj.(*osm.Way)
			if !loader.accepts(way) {
				continue
			}
			for _, node := range way.Nodes {
				nodesSeen[node.ID] = struct{}{}
			}
			ways = append(ways, way)
		}
		err = scannerWays.Err()
		if err != nil {
			return nil, errors.Wrap(err, "Can't scan ways")
		}
	}
	loader.progress("Processing ways done", "ways", len(ways), "elapsed", time.Since(st))

	// Seek file to start
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	/* Process nodes */
	st = time.Now()
	nodes := make(map[osm.NodeID]*osm.Node, len(nodesSeen))
	{
		scannerNodes, err := newScanner(context.Background(), filename, file)
		if err != nil {
			return nil, err
		}
		defer scannerNodes.Close()

		for scannerNodes.Scan() {
			obj := scannerNodes.Object()
			if obj.ObjectID().Type() != osm.TypeNode {
				continue
			}
			node := obj.(*osm.Node)
			if _, ok := nodesSeen[node.ID]; ok {
				nodes[node.ID] = node
			}
		}
		err = scannerNodes.Err()
		if err != nil {
			return nil, errors.Wrap(err, "Can't scan nodes")
		}
	}
	loader.progress("Processing nodes done", "nodes", len(nodes), "elapsed", time.Since(st))

	return &OSMData{
		ways:  ways,
		nodes: nodes,
	}, nil
}

// FromOSM picks accepted ways and their nodes from decoded OSM document
func (loader *Loader) FromOSM(doc *osm.OSM) *OSMData {
	data := OSMData{
		ways:  []*osm.Way{},
		nodes: make(map[osm.NodeID]*osm.Node),
	}
	nodesSeen := make(map[osm.NodeID]struct{})
	for _, way := range doc.Ways {
		if !loader.accepts(way) {
			continue
		}
		for _, node := range way.Nodes {
			nodesSeen[node.ID] = struct{}{}
		}
		data.ways = append(data.ways, way)
	}
	for _, node := range doc.Nodes {
		if _, ok := nodesSeen[node.ID]; ok {
			data.nodes[node.ID] = node
		}
	}
	return &data
}

// Network creates roads for accepted ways. Ways referencing unknown nodes are skipped
func (loader *Loader) Network(data *OSMData, projector Projector, options ...func(*Network)) (*Network, error) {
	st := time.Now()
	net := NewNetwork(options...)
	skipped := 0
	for _, way := range data.ways {
		style, ok := loader.matcher.Match(way.Tags)
		if !ok {
			continue
		}
		nodes, missing := data.wayNodes(way)
		if len(missing) > 0 {
			Logger().Debug("Way references unknown nodes", "way_id", int64(way.ID), "missing", strings.Join(missing, ","))
			skipped++
			continue
		}
		road, err := NewRoadFromWay(way, nodes, style, projector)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't create road for way %d", way.ID)
		}
		net.Append(road)
	}
	loader.progress("Roads prepared", "roads", len(net.roads), "skipped", skipped, "elapsed", time.Since(st))
	return net, nil
}

func (data *OSMData) wayNodes(way *osm.Way) (osm.Nodes, []string) {
	nodes := make(osm.Nodes, 0, len(way.Nodes))
	missing := []string{}
	for _, wayNode := range way.Nodes {
		node, ok := data.nodes[wayNode.ID]
		if !ok {
			missing = append(missing, fmt.Sprintf("%d", wayNode.ID))
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, missing
}

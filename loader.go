package roadshape

import (
	"fmt"
	"strings"
)

// Loader reads OSM data and turns its ways into roads
type Loader struct {
	cfg     *OsmConfiguration
	matcher StyleMatcher
	verbose bool
}

func (loader *Loader) String() string {
	return fmt.Sprintf(`
Road loader parameters:
	entity: '%s'
	tags: '%s'
	verbose: %t
	`,
		loader.cfg.EntityName,
		strings.Join(loader.cfg.Tags, ","),
		loader.verbose,
	)
}

func NewLoader(options ...func(*Loader)) *Loader {
	loader := &Loader{
		cfg:     DefaultOsmConfiguration(),
		verbose: false,
	}
	for _, option := range options {
		option(loader)
	}
	if loader.matcher == nil {
		loader.matcher = DefaultScheme()
	}
	return loader
}

// WithHighwayTags limits accepted `highway` values
func WithHighwayTags(tags []string) func(*Loader) {
	return func(loader *Loader) {
		loader.cfg = &OsmConfiguration{
			EntityName: "highway",
			Tags:       tags,
		}
	}
}

func WithScheme(matcher StyleMatcher) func(*Loader) {
	return func(loader *Loader) {
		loader.matcher = matcher
	}
}

func WithVerbose(verbose bool) func(*Loader) {
	return func(loader *Loader) {
		loader.verbose = verbose
	}
}

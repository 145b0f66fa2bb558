package roadshape

import (
	"github.com/paulmach/osm"
)

// OsmConfiguration Allows to filter ways by certain tags from OSM data
type OsmConfiguration struct {
	EntityName string // Currrently we support 'highway' only
	// Tags are accepted values of the entity tag. Empty list accepts every value
	Tags []string
}

// DefaultOsmConfiguration accepts every `highway` value
func DefaultOsmConfiguration() *OsmConfiguration {
	return &OsmConfiguration{
		EntityName: "highway",
	}
}

// CheckTag Checks if incoming tag is represented in configuration
func (cfg *OsmConfiguration) CheckTag(tag string) bool {
	if len(cfg.Tags) == 0 {
		return true
	}
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return true
		}
	}
	return false
}

// CheckWay checks if way has the entity tag with accepted value
func (cfg *OsmConfiguration) CheckWay(tags osm.Tags) bool {
	value := tags.Find(cfg.EntityName)
	if value == "" {
		return false
	}
	return cfg.CheckTag(value)
}

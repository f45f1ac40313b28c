package pipeline

import (
	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/topology"
)

// Load reads a topology file and an optional configuration file. An empty
// configPath yields an empty configuration.
func Load(topologyPath, configPath string) (*topology.Topology, *config.Configuration, error) {
	t, err := topology.ImportJSON(topologyPath)
	if err != nil {
		return nil, nil, err
	}
	if configPath == "" {
		return t, config.New(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return t, cfg, nil
}

// Package pipeline runs the load → render → export flow shared by the CLI
// and the HTTP service.
//
// A [Runner] owns the artifact cache and the logger. It renders a topology
// with a configuration, serves repeated renders of the same input from the
// cache, times every stage, and reports to the observability hooks:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Render(ctx, pipeline.Options{
//	    Topology: t,
//	    Config:   cfg,
//	})
//	os.WriteFile("mesh.svg", res.SVG, 0o644)
//
// Partial updates go through [Runner.Update] so that they are logged and
// observed the same way.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/topology"
	"github.com/matzehuels/meshview/pkg/topology/routing"
)

// Output formats of the node-link export.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, FormatDOT, FormatSVG)
}

// ValidateAlgorithm checks a routing algorithm name. The empty name is
// valid and means no loads.
func ValidateAlgorithm(name string) error {
	if name == "" {
		return nil
	}
	_, err := routing.Parse(name)
	return err
}

// Options configures a mesh render.
type Options struct {
	Topology *topology.Topology
	Config   *config.Configuration
	Base     config.BaseConfiguration
	// Toggles switches task badges to the computed variant after the
	// initial render.
	Toggles []int
	// Refresh bypasses the cache for reads.
	Refresh bool

	Logger *log.Logger
}

// Validate checks required fields and applies defaults.
func (o *Options) Validate() error {
	if o.Topology == nil {
		return errors.New(errors.ErrCodeInvalidInput, "topology is required")
	}
	if o.Config == nil {
		o.Config = config.New()
	}
	o.Base = o.Base.Clamp()
	o.Toggles = slices.Clone(o.Toggles)
	slices.Sort(o.Toggles)
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// DOTOptions configures a node-link export.
type DOTOptions struct {
	Topology *topology.Topology
	Format   string
	Detailed bool
	// Algorithm, when set, labels channels with the loads it computes.
	Algorithm string
	Refresh   bool
}

// Validate checks required fields and applies defaults.
func (o *DOTOptions) Validate() error {
	if o.Topology == nil {
		return errors.New(errors.ErrCodeInvalidInput, "topology is required")
	}
	if o.Format == "" {
		o.Format = FormatDOT
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	return ValidateAlgorithm(o.Algorithm)
}

// Result is the outcome of a render.
type Result struct {
	// SVG is the complete document.
	SVG []byte
	// Document is the live document. It is nil when SVG came from the cache.
	Document *mesh.Document
	// TopologyHash is the content hash of the topology.
	TopologyHash string
	Stats        Stats
	CacheHit     bool
}

// Stats contains render statistics.
type Stats struct {
	Cores      int
	Tasks      int
	Links      int
	RenderTime time.Duration
}

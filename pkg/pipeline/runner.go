package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshview/pkg/cache"
	"github.com/matzehuels/meshview/pkg/observability"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/render/nodelink"
	"github.com/matzehuels/meshview/pkg/topology"
	"github.com/matzehuels/meshview/pkg/topology/routing"
)

// Runner encapsulates rendering with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner; documents it returns are not safe
// for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// HashTopology returns the content hash of t.
func HashTopology(t *topology.Topology) (string, error) {
	var buf bytes.Buffer
	if err := topology.WriteJSON(&buf, t); err != nil {
		return "", fmt.Errorf("serialize topology: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// Render renders a document, serving the SVG from the cache when the same
// topology, configuration and font sizes were rendered before.
func (r *Runner) Render(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	topoHash, err := HashTopology(opts.Topology)
	if err != nil {
		return nil, err
	}
	cfgData, err := json.Marshal(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("serialize configuration: %w", err)
	}
	key := r.Keyer.RenderKey(topoHash, cache.RenderKeyOpts{
		ConfigHash:        cache.Hash(cfgData),
		AttributeFontSize: opts.Base.AttributeFontSize,
		TaskFontSize:      opts.Base.TaskFontSize,
		Toggles:           opts.Toggles,
	})

	res := &Result{TopologyHash: topoHash}
	res.Stats.Cores = len(opts.Topology.Cores)
	res.Stats.Tasks = len(opts.Topology.Tasks)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			r.Logger.Debug("render cache hit", "key", key)
			res.SVG = data
			res.CacheHit = true
			return res, nil
		} else if err != nil {
			r.Logger.Warn("render cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Topology.Rows, opts.Topology.Columns)
	doc, err := r.renderDocument(opts)
	res.Stats.RenderTime = time.Since(start)
	observability.Render().OnRenderComplete(ctx, res.Stats.Cores, res.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	res.Document = doc
	res.SVG = doc.SVG()
	res.Stats.Links = doc.Connections().Len()

	r.Logger.Info("rendered mesh",
		"rows", opts.Topology.Rows,
		"columns", opts.Topology.Columns,
		"links", res.Stats.Links,
		"duration", res.Stats.RenderTime)

	if err := r.Cache.Set(ctx, key, res.SVG, cache.TTLRender); err != nil {
		r.Logger.Warn("render cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "render", len(res.SVG))
	}
	return res, nil
}

func (r *Runner) renderDocument(opts Options) (*mesh.Document, error) {
	doc, err := mesh.Render(opts.Topology, opts.Config, mesh.WithBase(opts.Base))
	if err != nil {
		return nil, err
	}
	if len(opts.Toggles) > 0 {
		if _, err := doc.Update(mesh.UpdateRequest{Toggles: opts.Toggles}); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Update applies req to doc and logs the outcome.
func (r *Runner) Update(ctx context.Context, doc *mesh.Document, req mesh.UpdateRequest) (*mesh.Update, error) {
	start := time.Now()
	up, err := doc.Update(req)
	elapsed := time.Since(start)
	grew := up != nil && up.ViewBox != nil
	observability.Render().OnUpdate(ctx, grew, elapsed, err)
	if err != nil {
		r.Logger.Debug("update rejected", "err", err, "duration", elapsed)
		return nil, err
	}
	r.Logger.Info("updated mesh", "toggles", len(req.Toggles), "grew", grew, "duration", elapsed)
	return up, nil
}

// DOT exports the topology as a node-link diagram in the requested format.
// The second result reports a cache hit.
func (r *Runner) DOT(ctx context.Context, opts DOTOptions) ([]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}
	topoHash, err := HashTopology(opts.Topology)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.DOTKey(topoHash, cache.DOTKeyOpts{
		Format:    opts.Format,
		Detailed:  opts.Detailed,
		Algorithm: opts.Algorithm,
	})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "dot")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "dot")
	}

	nl := nodelink.Options{Detailed: opts.Detailed}
	if opts.Algorithm != "" {
		alg, _ := routing.Parse(opts.Algorithm)
		loads, err := routing.Compute(opts.Topology, alg)
		if err != nil {
			return nil, false, err
		}
		nl.Loads = loads
	}

	dot := nodelink.ToDOT(opts.Topology, nl)
	data := []byte(dot)
	if opts.Format == FormatSVG {
		data, err = nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, false, err
		}
	}
	r.Logger.Info("exported node-link diagram", "format", opts.Format, "bytes", len(data))

	if err := r.Cache.Set(ctx, key, data, cache.TTLDOT); err == nil {
		observability.Cache().OnCacheSet(ctx, "dot", len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Package cache stores rendered artifacts keyed by the content that
// produced them.
//
// A rendered mesh depends only on its topology, its field configuration and
// its base configuration, so the SVG of a render can be reused whenever all
// three hash to the same key. Three backends are provided:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared between server instances
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so that the server can isolate tenants with a
// [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the entry under key. The second result is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default lifetimes.
const (
	TTLRender = 7 * 24 * time.Hour
	TTLDOT    = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// RenderKey returns the key of a mesh SVG.
	RenderKey(topologyHash string, opts RenderKeyOpts) string

	// DOTKey returns the key of a node-link export.
	DOTKey(topologyHash string, opts DOTKeyOpts) string
}

// RenderKeyOpts holds everything besides the topology that changes a
// rendered mesh.
type RenderKeyOpts struct {
	ConfigHash        string  `json:"config"`
	AttributeFontSize float64 `json:"attribute_font_size"`
	TaskFontSize      float64 `json:"task_font_size"`
	Toggles           []int   `json:"toggles,omitempty"`
}

// DOTKeyOpts holds everything besides the topology that changes a DOT export.
type DOTKeyOpts struct {
	Format    string `json:"format"`
	Detailed  bool   `json:"detailed"`
	Algorithm string `json:"algorithm,omitempty"`
}

// DefaultKeyer hashes key options together with the content hash.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(topologyHash string, opts RenderKeyOpts) string {
	return hashKey("render", topologyHash, opts)
}

// DOTKey returns "dot:<sha256>".
func (DefaultKeyer) DOTKey(topologyHash string, opts DOTKeyOpts) string {
	return hashKey("dot", topologyHash, opts)
}

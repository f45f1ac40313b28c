// Package cli implements the meshview command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshview/pkg/cache"
	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/pipeline"
	"github.com/matzehuels/meshview/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "meshview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Flags shared by every command that touches storage.
	noCache    bool
	cacheDir   string
	sessionDir string
	redisAddr  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	if c.redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.redisAddr})
	}
	dir := c.cacheDir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Debug("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newStore opens the session store: Redis when --redis is set, the session
// directory otherwise.
func (c *CLI) newStore(ctx context.Context) (session.Store, error) {
	if c.redisAddr != "" {
		return session.NewRedisStore(ctx, session.RedisConfig{Addr: c.redisAddr})
	}
	return session.NewFileStore(c.sessionDir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/meshview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseToggles parses a comma-separated list of task ids.
func parseToggles(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid task id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// writeOutput writes data to path, or to stdout when path is "" or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/internal/server"
	"github.com/matzehuels/meshview/pkg/session"
)

type serveOpts struct {
	addr     string
	ttl      time.Duration
	memory   bool
	maxBytes int64
}

// serveCommand creates the serve command that runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     ":8080",
		ttl:      session.DefaultTTL,
		maxBytes: server.DefaultMaxBodyBytes,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendering and partial updates over HTTP",
		Long: `Serve rendering and partial updates over HTTP.

Sessions are kept in Redis when --redis is set, in the session directory
otherwise, or only in memory with --memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	f.DurationVar(&opts.ttl, "ttl", opts.ttl, "session lifetime after the last update")
	f.BoolVar(&opts.memory, "memory", false, "keep sessions in memory only")
	f.Int64Var(&opts.maxBytes, "max-body", opts.maxBytes, "maximum request body size in bytes")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	var store session.Store = session.NewMemoryStore()
	if !opts.memory {
		if store, err = c.newStore(ctx); err != nil {
			return err
		}
	}
	defer store.Close()

	if err := store.Cleanup(ctx); err != nil {
		c.Logger.Warn("session cleanup failed", "err", err)
	}

	srv := server.New(server.Config{
		Runner:       runner,
		Store:        store,
		Logger:       c.Logger,
		TTL:          opts.ttl,
		MaxBodyBytes: opts.maxBytes,
	})
	return srv.ListenAndServe(ctx, opts.addr)
}

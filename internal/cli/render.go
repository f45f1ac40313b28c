package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/pipeline"
	"github.com/matzehuels/meshview/pkg/session"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	config  string  // display configuration file (.toml or .json)
	output  string  // output SVG path, stdout when empty
	toggles string  // comma-separated task ids shown with their cost
	attr    float64 // attribute font size
	task    float64 // task font size
	session bool    // keep the document in a session for later updates
	refresh bool    // ignore cached renders
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <topology.json>",
		Short: "Render a mesh topology to SVG",
		Long: `Render a mesh topology to SVG.

The display configuration decides which core, router and channel attributes
are shown and how they are coloured. With --session the document is kept so
that "meshview update" can change the configuration later.`,
		Example: `  meshview render mesh.json -c display.toml -o mesh.svg
  meshview render mesh.json -c display.toml --toggle 3,7 --session`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "display configuration file")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&opts.toggles, "toggle", "", "task ids to show with their computation cost")
	f.Float64Var(&opts.attr, "attribute-font-size", config.DefaultAttributeFontSize,
		fmt.Sprintf("attribute font size (%g-%g)", config.MinAttributeFontSize, config.MaxAttributeFontSize))
	f.Float64Var(&opts.task, "task-font-size", config.DefaultTaskFontSize,
		fmt.Sprintf("task font size (%g-%g)", config.MinTaskFontSize, config.MaxTaskFontSize))
	f.BoolVar(&opts.session, "session", false, "keep the document in a session")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached renders")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	toggles, err := parseToggles(opts.toggles)
	if err != nil {
		return err
	}
	topo, cfg, err := pipeline.Load(input, opts.config)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Render(ctx, pipeline.Options{
		Topology: topo,
		Config:   cfg,
		Base:     config.BaseConfiguration{AttributeFontSize: opts.attr, TaskFontSize: opts.task},
		Toggles:  toggles,
		// A session needs the live document, which the cache does not keep.
		Refresh: opts.refresh || opts.session,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %dx%d mesh", topo.Rows, topo.Columns))

	if err := writeOutput(opts.output, res.SVG); err != nil {
		return err
	}
	toFile := opts.output != "" && opts.output != "-"
	if toFile {
		printSuccess("Rendered %s", input)
		printStats(res.Stats.Cores, res.Stats.Links, res.CacheHit)
		printFile(opts.output)
	}

	if !opts.session {
		return nil
	}
	snap, err := res.Document.Snapshot()
	if err != nil {
		return err
	}
	sess, err := session.New(snap, session.DefaultTTL)
	if err != nil {
		return err
	}
	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Set(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if !toFile {
		// stdout carries the document.
		c.Logger.Info("session saved", "id", sess.ID)
		return nil
	}
	printInfo("Session %s", StyleHighlight.Render(sess.ID))
	printNextStep("Update it with", "meshview update "+sess.ID+" -c other.toml")
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/pkg/config"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/session"
)

type updateOpts struct {
	config  string // replacement display configuration
	toggles string // comma-separated task ids to switch
	output  string // write the updated document here
	json    bool   // print the update fragments as JSON
}

// updateCommand creates the update command.
func (c *CLI) updateCommand() *cobra.Command {
	var opts updateOpts

	cmd := &cobra.Command{
		Use:   "update <session-id>",
		Short: "Apply a configuration change to a stored document",
		Long: `Apply a configuration change to a stored document.

Only the stylesheet and the information overlay are recomputed. The visible
area grows when the new labels need more room and never shrinks. A failed
update leaves the stored document unchanged.`,
		Example: `  meshview update 0b6c... -c heat.toml -o mesh.svg
  meshview update 0b6c... --toggle 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUpdate(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "replacement display configuration file")
	f.StringVar(&opts.toggles, "toggle", "", "task ids whose badge switches variant")
	f.StringVarP(&opts.output, "output", "o", "", "write the updated document to a file")
	f.BoolVar(&opts.json, "json", false, "print the update fragments as JSON")

	return cmd
}

func (c *CLI) runUpdate(cmd *cobra.Command, id string, opts updateOpts) error {
	ctx := cmd.Context()
	var req mesh.UpdateRequest
	var err error
	if req.Toggles, err = parseToggles(opts.toggles); err != nil {
		return err
	}
	if opts.config != "" {
		if req.Config, err = config.Load(opts.config); err != nil {
			return err
		}
	}

	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return session.NotFound(id)
	}
	doc, err := sess.Document()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	up, err := runner.Update(ctx, doc, req)
	if err != nil {
		return err
	}
	snap, err := doc.Snapshot()
	if err != nil {
		return err
	}
	sess.Touch(snap, session.DefaultTTL)
	if err := store.Set(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(up)
	}
	if opts.output != "" {
		if err := writeOutput(opts.output, doc.SVG()); err != nil {
			return err
		}
	}

	printSuccess("Updated session %s", StyleHighlight.Render(id))
	if up.ViewBox != nil {
		printDetail("view box grew to %s", *up.ViewBox)
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

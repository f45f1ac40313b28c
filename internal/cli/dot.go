package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/pkg/pipeline"
	"github.com/matzehuels/meshview/pkg/topology"
	"github.com/matzehuels/meshview/pkg/topology/routing"
)

type dotOpts struct {
	output    string
	format    string
	detailed  bool
	algorithm string
	refresh   bool
}

// dotCommand creates the dot command for node-link exports.
func (c *CLI) dotCommand() *cobra.Command {
	var opts dotOpts

	cmd := &cobra.Command{
		Use:   "dot <topology.json>",
		Short: "Export the core adjacency as a Graphviz diagram",
		Long: `Export the core adjacency as a Graphviz diagram.

Cores become nodes, wired channels become edges, and boundary sinks and
sources become dashed nodes outside the grid. With --algorithm each edge is
labelled with its routed load and bandwidth.`,
		Example: `  meshview dot mesh.json > mesh.dot
  meshview dot mesh.json --format svg --detailed --algorithm RowFirst -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDOT(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	f.StringVarP(&opts.format, "format", "f", pipeline.FormatDOT, "output format: dot or svg")
	f.BoolVar(&opts.detailed, "detailed", false, "include coordinates, tasks and attributes in labels")
	f.StringVar(&opts.algorithm, "algorithm", "", "label edges with routed loads: RowFirst, ColumnFirst or Observed")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached exports")

	cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{pipeline.FormatDOT, pipeline.FormatSVG}, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.RegisterFlagCompletionFunc("algorithm", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(routing.Algorithms))
		for i, a := range routing.Algorithms {
			names[i] = string(a)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runDOT(cmd *cobra.Command, input string, opts dotOpts) error {
	ctx := cmd.Context()
	if err := pipeline.ValidateFormat(opts.format); err != nil {
		return err
	}
	topo, err := topology.ImportJSON(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if opts.format == pipeline.FormatSVG {
		spin = newSpinnerWithContext(ctx, "Laying out graph...")
		spin.Start()
	}
	data, hit, err := runner.DOT(ctx, pipeline.DOTOptions{
		Topology:  topo,
		Format:    opts.format,
		Detailed:  opts.detailed,
		Algorithm: opts.algorithm,
		Refresh:   opts.refresh,
	})
	if spin != nil {
		if err != nil {
			spin.StopWithError("Graph layout failed")
		} else {
			spin.Stop()
		}
	}
	if err != nil {
		return err
	}
	c.Logger.Debug("exported node-link diagram", "format", opts.format, "cached", hit)

	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	if opts.output != "" && opts.output != "-" {
		printSuccess("Exported %s", input)
		printStats(topo.Rows*topo.Columns, 0, hit)
		printFile(opts.output)
	}
	return nil
}

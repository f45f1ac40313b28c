package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Meshview renders mesh network-on-chip topologies as SVG",
		Long: `Meshview renders a rectangular grid of cores, routers and channels as an SVG
document, colours it from per-element attributes, and keeps rendered documents
in sessions so that the configuration can be changed without redrawing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the render cache")
	flags.StringVar(&c.cacheDir, "cache-dir", "", "render cache directory (default ~/.cache/meshview)")
	flags.StringVar(&c.sessionDir, "session-dir", "", "session directory (default ~/.config/meshview/sessions)")
	flags.StringVar(&c.redisAddr, "redis", "", "Redis address for the cache and sessions (host:port)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// versionCommand prints the build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := buildinfo.Current()
			printKeyValue("Version", info.Version)
			printKeyValue("Commit", info.Commit)
			printKeyValue("Built", info.Date)
		},
	}
}

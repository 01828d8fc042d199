package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/posterkit/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands
// registered. The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "posterkit generates print-ready event posters",
		Long:          `posterkit fills poster templates with event details, auto-fitting the text, and writes PNG and single-page PDF files. It also serves the same templates as a web form and batch-converts PPTX/PDF files to PNG.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/posterkit/config.toml)")
	_ = root.MarkPersistentFlagFilename("config", "toml")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.fitCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

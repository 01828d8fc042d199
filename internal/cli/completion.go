package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posterkit/pkg/fonts"
	"github.com/matzehuels/posterkit/pkg/pipeline"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for posterkit.

  bash:        source <(posterkit completion bash)
  zsh:         posterkit completion zsh > "${fpath[1]}/_posterkit"
  fish:        posterkit completion fish | source
  powershell:  posterkit completion powershell | Out-String | Invoke-Expression

Completions cover subcommands, output formats and the built-in fonts.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeFormats completes a comma-separated --format list.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	chosen := map[string]bool{}
	for _, f := range strings.Split(prefix, ",") {
		chosen[f] = true
	}
	var out []string
	for _, f := range pipeline.DefaultFormats {
		if !chosen[f] {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeFonts offers the built-in fonts and falls back to file names.
func completeFonts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if strings.ContainsRune(toComplete, os.PathSeparator) {
		return nil, cobra.ShellCompDirectiveFilterFileExt
	}
	return fonts.Builtins(), cobra.ShellCompDirectiveDefault
}

package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/constellation"
	"github.com/matzehuels/starchart/pkg/pipeline"
	"github.com/matzehuels/starchart/pkg/render/chart/styles"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for starchart.

  $ source <(starchart completion bash)
  $ starchart completion zsh > "${fpath[1]}/_starchart"
  $ starchart completion fish > ~/.config/fish/completions/starchart.fish
  PS> starchart completion powershell | Out-String | Invoke-Expression

Styles, output formats, catalogs and built-in figure sets complete by name.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// registerChartCompletions adds value completion to the chart flags of cmd.
// Flags cmd does not define are skipped.
func registerChartCompletions(cmd *cobra.Command) {
	formats := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	values := map[string][]string{
		"style":          styles.Names(),
		"format":         formats,
		"catalog":        {catalog.FormatBuiltin, pipeline.CatalogHipparcos},
		"catalog-format": {catalog.FormatHipparcos, catalog.FormatCSV},
		"figures":        constellation.BuiltinSets(),
	}
	for name, vals := range values {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		directive := cobra.ShellCompDirectiveNoFileComp
		if name == "catalog" || name == "figures" {
			directive = cobra.ShellCompDirectiveDefault
		}
		_ = cmd.RegisterFlagCompletionFunc(name, fixedCompletion(vals, directive))
	}
}

func fixedCompletion(vals []string, directive cobra.ShellCompDirective) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return vals, directive
	}
}

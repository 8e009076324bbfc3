package cli

import (
	"context"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/pipeline"
	"github.com/matzehuels/starchart/pkg/storage"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	chart  chartFlags
	output string // directory or s3://bucket/prefix
	name   string // artifact base name
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a star chart for a place and time",
		Long: `Render a star chart for a place and time.

Examples:
  starchart render -p "Virginia Beach, VA" -w "2021-05-17 00:00" --tz America/New_York
  starchart render --lat 51.48 --lon 0 -f svg,png --style night -o charts/
  starchart render --figures constellations,asterisms -o s3://my-bucket/charts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts := opts.chart.options(cmd, c.config())
			popts.Logger = c.Logger
			return c.runRender(cmd.Context(), popts, opts.output, opts.name)
		},
	}

	opts.chart.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory or s3://bucket/prefix (default from config, else .)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "output base name (default: derived from the label)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output, name string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	store, err := c.openStore(ctx, output)
	if err != nil {
		return err
	}

	stop := startSpinner(ctx, "Rendering chart...")
	result, err := runner.Execute(ctx, opts)
	stop()
	if err != nil {
		return err
	}

	if name == "" {
		name = slug(result.Observer.Label)
	}
	if err := errors.ValidateFilename(name); err != nil {
		return err
	}

	printSuccess("%s", result.Scene.Title)
	printStats(result.Stats.Markers, result.Stats.Segments, result.CacheInfo.SceneHit)
	printDiagnostics(result)

	for _, f := range sortedFormats(result.Artifacts) {
		loc, err := store.Put(ctx, name+"."+f, result.Artifacts[f], pipeline.ContentTypes[f])
		if err != nil {
			return err
		}
		printFile(loc)
	}
	return nil
}

// openStore opens output, falling back to the configured target.
func (c *CLI) openStore(ctx context.Context, output string) (storage.Store, error) {
	cfg := c.config()
	if output == "" {
		output = cfg.Output.Target
	}
	return storage.Open(ctx, output, cfg.S3Config())
}

func printDiagnostics(r *pipeline.Result) {
	d := r.Diagnostics
	if d.EmptyAfterFilter {
		printWarning("No stars pass the magnitude limit")
	}
	if d.Excluded > 0 {
		printWarning("%d stars could not be projected", d.Excluded)
	}
	if d.UnresolvedEdges > 0 {
		printDetail("%d figure edges reference stars missing from the catalog", d.UnresolvedEdges)
	}
}

func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// slug turns a label into a file-name friendly base name.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "starchart"
	}
	return out
}

// stderrIsTerminal reports whether progress animations should be shown.
func stderrIsTerminal() bool { return isTerminal(os.Stderr) }

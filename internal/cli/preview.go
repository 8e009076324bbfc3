package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/starchart/pkg/pipeline"
	"github.com/matzehuels/starchart/pkg/render/chart/sink"
)

// previewCommand prints the chart as text in the terminal.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags chartFlags
		cols  int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the sky in the terminal",
		Long: `Preview the sky in the terminal as text.

The disc is sized to the terminal unless --cols is given. Nothing is written
to disk and no chart is cached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.config())
			opts.Logger = c.Logger
			if cols <= 0 {
				cols = sink.DefaultTextColumns
				if isTerminal(os.Stdout) {
					if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
						cols = fitColumns(w, h)
					}
				}
			}
			return c.runPreview(cmd.Context(), cmd.OutOrStdout(), opts, cols)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().IntVar(&cols, "cols", 0, "preview width in characters (default: fit the terminal)")
	return cmd
}

// fitColumns sizes the preview to a terminal of w×h cells, leaving room for
// the header and footer. Cells are about twice as tall as wide.
func fitColumns(w, h int) int {
	return max(min(w, 2*(h-4)), 16)
}

func (c *CLI) runPreview(ctx context.Context, w io.Writer, opts pipeline.Options, cols int) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Resolve(ctx, opts)
	if err != nil {
		return err
	}
	cat, err := runner.LoadCatalog(ctx, opts)
	if err != nil {
		return err
	}
	sets, err := runner.LoadFigures(ctx, opts)
	if err != nil {
		return err
	}
	scene, diag, err := runner.Chart(ctx, res, cat.Entries(), sets, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, StyleTitle.Render(scene.Title))
	w.Write(sink.RenderText(scene, sink.WithColumns(cols), sink.WithoutTitle()))
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d stars · %d segments · mag ≤ %.1f", diag.Markers, diag.Segments, opts.MagnitudeLimit)))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/pipeline"
)

// catalogOpts selects the catalog the subcommands operate on.
type catalogOpts struct {
	source  string
	format  string
	refresh bool
}

func (o *catalogOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.source, "catalog", "", "star catalog: builtin, hipparcos or a file path")
	cmd.Flags().StringVar(&o.format, "catalog-format", "", "catalog file format: hipparcos or csv")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "re-download remote catalogs")
}

// catalogCommand groups catalog inspection subcommands.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect, download and convert star catalogs",
	}
	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogFetchCommand())
	cmd.AddCommand(c.catalogConvertCommand())
	return cmd
}

func (c *CLI) loadCatalog(ctx context.Context, o catalogOpts) (*catalog.Catalog, error) {
	cfg := c.config()
	opts := pipeline.Options{
		Catalog:       cfg.Catalog.Source,
		CatalogFormat: cfg.Catalog.Format,
		Refresh:       o.refresh,
	}
	if o.source != "" {
		opts.Catalog, opts.CatalogFormat = o.source, o.format
	}
	if opts.Catalog == "" {
		opts.Catalog = pipeline.DefaultCatalog
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	defer startSpinner(ctx, "Loading "+opts.Catalog+"...")()
	return runner.LoadCatalog(ctx, opts)
}

func (c *CLI) catalogListCommand() *cobra.Command {
	var (
		o     catalogOpts
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the brightest stars of a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(cmd.Context(), o)
			if err != nil {
				return err
			}
			stars := cat.Brightest(limit)
			fmt.Println(starTable(stars))
			printDetail("%d of %d stars in %s", len(stars), cat.Len(), cat.Name)
			return nil
		},
	}
	o.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of stars to list (0 for all)")
	return cmd
}

// starTable renders stars with sexagesimal coordinates.
func starTable(stars []catalog.Star) string {
	rows := make([][]string, len(stars))
	for i, s := range stars {
		name := s.Name
		if name == "" {
			name = "—"
		}
		rows[i] = []string{
			strconv.Itoa(s.HIP),
			name,
			catalog.FormatRA(s.RA),
			catalog.FormatDec(s.Dec),
			catalog.FormatMag(s.Mag),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("HIP", "Name", "RA", "Dec", "Mag").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 4:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			case col == 0:
				return base.Foreground(colorGray).Align(lipgloss.Right)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

func (c *CLI) catalogFetchCommand() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the Hipparcos catalogue into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)
			cat, err := c.loadCatalog(cmd.Context(), catalogOpts{source: pipeline.CatalogHipparcos, refresh: refresh})
			if err != nil {
				return err
			}
			prog.done("Fetched catalog", "stars", cat.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "download even if cached")
	return cmd
}

func (c *CLI) catalogConvertCommand() *cobra.Command {
	var (
		o      catalogOpts
		output string
		mag    float64
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write a catalog as CSV (id,name,ra_deg,dec_deg,mag)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(cmd.Context(), o)
			if err != nil {
				return err
			}
			stars := cat.Stars
			if cmd.Flags().Changed("mag") {
				stars = nil
				for _, s := range cat.Stars {
					if s.Mag <= mag {
						stars = append(stars, s)
					}
				}
			}

			w := os.Stdout
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrap(errors.ErrCodeStorage, err, "create %s", output)
				}
				defer f.Close()
				w = f
			}
			if err := catalog.WriteCSV(w, stars); err != nil {
				return err
			}
			if w != os.Stdout {
				printSuccess("Wrote %d stars", len(stars))
				printFile(output)
			}
			return nil
		},
	}
	o.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().Float64VarP(&mag, "mag", "m", 0, "keep only stars at or brighter than this magnitude")
	return cmd
}

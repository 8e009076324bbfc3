package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/constellation"
	"github.com/matzehuels/starchart/pkg/errors"
)

// Figure output formats.
const (
	figuresTable = "table"
	figuresDOT   = "dot"
	figuresSVG   = "svg"
	figuresFab   = "fab"
)

// figuresCommand inspects and exports constellation figure sets.
func (c *CLI) figuresCommand() *cobra.Command {
	var (
		cat    catalogOpts
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "figures [set or file]",
		Short: "Inspect a constellation figure set or export it as a graph",
		Long: fmt.Sprintf(`Inspect a constellation figure set or export it as a graph.

The argument is a built-in set (%s) or a Stellarium .fab file.
Stars are named from the catalog; stars it lacks are flagged, since their
edges are dropped when charting.

Examples:
  starchart figures
  starchart figures asterisms --format svg -o asterisms.svg
  starchart figures constellationship.fab --catalog hipparcos --format dot`,
			strings.Join(constellation.BuiltinSets(), ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := constellation.SetConstellations
			if len(args) == 1 {
				source = args[0]
			}
			figs, err := loadFigures(source)
			if err != nil {
				return err
			}
			stars, err := c.loadCatalog(cmd.Context(), cat)
			if err != nil {
				return err
			}
			return writeFigures(cmd, figs, stars, format, output)
		},
	}

	cat.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", figuresTable, "output: table, dot, svg or fab")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for dot, svg and fab (default stdout)")
	return cmd
}

func loadFigures(source string) ([]constellation.Figure, error) {
	if constellation.IsBuiltin(source) {
		return constellation.Builtin(source)
	}
	return constellation.Load(source)
}

func writeFigures(cmd *cobra.Command, figs []constellation.Figure, cat *catalog.Catalog, format, output string) error {
	known := func(id int) bool { _, ok := cat.Find(id); return ok }
	missing := constellation.Missing(figs, known)

	if format == figuresTable {
		fmt.Println(figureTable(figs, known))
		if len(missing) > 0 {
			printWarning("%d stars are not in %s", len(missing), cat.Name)
		}
		return nil
	}

	var data []byte
	switch format {
	case figuresFab:
		var b strings.Builder
		if err := constellation.Write(&b, figs); err != nil {
			return err
		}
		data = []byte(b.String())
	case figuresDOT, figuresSVG:
		opts := constellation.DOTOptions{
			Name: func(id int) string {
				if s, ok := cat.Find(id); ok {
					return s.Name
				}
				return ""
			},
			Missing: make(map[int]bool, len(missing)),
		}
		for _, id := range missing {
			opts.Missing[id] = true
		}
		dot := constellation.ToDOT(figs, opts)
		if format == figuresDOT {
			data = []byte(dot)
			break
		}
		svg, err := constellation.RenderSVG(cmd.Context(), dot)
		if err != nil {
			return err
		}
		data = svg
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "invalid figures format: %q (must be one of: table, dot, svg, fab)", format)
	}

	if output == "" || output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", output)
	}
	printSuccess("Exported %d figures", len(figs))
	printFile(output)
	return nil
}

func figureTable(figs []constellation.Figure, known func(int) bool) string {
	rows := make([][]string, len(figs))
	for i, f := range figs {
		stars := constellation.Stars([]constellation.Figure{f})
		miss := len(constellation.Missing([]constellation.Figure{f}, known))
		missCol := "—"
		if miss > 0 {
			missCol = strconv.Itoa(miss)
		}
		rows[i] = []string{f.Abbr, strconv.Itoa(len(f.Edges)), strconv.Itoa(len(stars)), missCol}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Figure", "Edges", "Stars", "Missing").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 3 && rows[row][3] != "—" {
				return base.Foreground(colorYellow)
			}
			if col == 0 {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

package cli

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/pipeline"
	"github.com/matzehuels/starchart/pkg/sky"
)

// frameCommand prints the observer frame: sidereal time, zenith and the
// geocentric position.
func (c *CLI) frameCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Show the sidereal time and zenith for a place and time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.config())
			opts.Logger = c.Logger
			return c.runFrame(cmd.Context(), opts)
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (c *CLI) runFrame(ctx context.Context, opts pipeline.Options) error {
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
	frame, err := sky.BuildFrame(res.Observer)
	if err != nil {
		return err
	}

	printKeyValue("Location", res.Label)
	printKeyValue("Latitude", fmt.Sprintf("%.4f°", res.Observer.Latitude))
	printKeyValue("Longitude", fmt.Sprintf("%.4f°", res.Observer.Longitude))
	printKeyValue("Local", res.Local.Format("2006-01-02 15:04 MST"))
	printKeyValue("UTC", frame.Instant.Format(time.RFC3339))
	printKeyValue("Julian date", fmt.Sprintf("%.6f", frame.JD))
	printKeyValue("GAST", catalog.FormatRA(degrees(frame.GAST)))
	printKeyValue("LST", catalog.FormatRA(degrees(frame.LST)))
	printKeyValue("Zenith RA", catalog.FormatRA(degrees(frame.Zenith.RA().Rad())))
	printKeyValue("Zenith Dec", catalog.FormatDec(frame.Zenith.Dec().Deg()))
	p := frame.Position
	printKeyValue("Position", fmt.Sprintf("%.1f, %.1f, %.1f km", p.X, p.Y, p.Z))
	return nil
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

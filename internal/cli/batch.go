package cli

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/observer"
	"github.com/matzehuels/starchart/pkg/pipeline"
)

// maxBatch bounds the number of charts one batch may produce.
const maxBatch = 1000

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	chart  chartFlags
	output string
	name   string
	from   string
	to     string
	step   time.Duration
	times  []string
	jobs   int
}

// batchCommand renders one chart per instant, concurrently.
func (c *CLI) batchCommand() *cobra.Command {
	opts := batchOpts{step: time.Hour, jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render a series of charts for the same place",
		Long: `Render a series of charts for the same place, one per instant.

Instants come from --times, or from --from to --to every --step.

Examples:
  starchart batch -p "Virginia Beach, VA" --tz America/New_York \
      --from "2021-05-17 20:00" --to "2021-05-18 04:00" --step 1h -f png
  starchart batch --lat 0 --lon 0 --times "2021-03-20 12:00,2021-06-21 12:00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts := opts.chart.options(cmd, c.config())
			popts.Logger = c.Logger
			whens, err := batchTimes(opts.from, opts.to, opts.step, opts.times)
			if err != nil {
				return err
			}
			return c.runBatch(cmd.Context(), popts, whens, &opts)
		},
	}

	opts.chart.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory or s3://bucket/prefix")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "output base name; the instant is appended")
	cmd.Flags().StringVar(&opts.from, "from", "", "first local time (\"YYYY-MM-DD HH:MM\")")
	cmd.Flags().StringVar(&opts.to, "to", "", "last local time, inclusive")
	cmd.Flags().DurationVar(&opts.step, "step", opts.step, "interval between charts")
	cmd.Flags().StringSliceVar(&opts.times, "times", nil, "explicit local times (comma-separated)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "charts rendered in parallel")

	return cmd
}

// batchTimes expands the flags into wall-clock strings. Times are stepped
// in wall-clock terms, so the series ignores DST transitions.
func batchTimes(from, to string, step time.Duration, times []string) ([]string, error) {
	if len(times) > 0 {
		if from != "" || to != "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--times cannot be combined with --from/--to")
		}
		for _, t := range times {
			if _, err := observer.ParseTime(t, time.UTC); err != nil {
				return nil, err
			}
		}
		return times, nil
	}
	if from == "" || to == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "either --times or both --from and --to are required")
	}
	if step <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--step must be positive")
	}
	start, err := observer.ParseTime(from, time.UTC)
	if err != nil {
		return nil, err
	}
	end, err := observer.ParseTime(to, time.UTC)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--to is before --from")
	}

	var out []string
	for t := start; !t.After(end); t = t.Add(step) {
		if len(out) == maxBatch {
			return nil, errors.New(errors.ErrCodeInvalidInput, "batch would produce more than %d charts", maxBatch)
		}
		out = append(out, t.Format(observer.TimeLayout))
	}
	return out, nil
}

func (c *CLI) runBatch(ctx context.Context, base pipeline.Options, whens []string, opts *batchOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	store, err := c.openStore(ctx, opts.output)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	results := make([]*pipeline.Result, len(whens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))

	for i, when := range whens {
		g.Go(func() error {
			o := base
			o.When = when
			res, err := runner.Execute(gctx, o)
			if err != nil {
				return fmt.Errorf("%s: %w", when, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, res := range results {
		name := opts.name
		if name == "" {
			name = slug(res.Observer.Label)
		}
		name += "-" + res.Observer.Local.Format("20060102-1504")
		if err := errors.ValidateFilename(name); err != nil {
			return err
		}
		for _, f := range sortedFormats(res.Artifacts) {
			loc, err := store.Put(ctx, name+"."+f, res.Artifacts[f], pipeline.ContentTypes[f])
			if err != nil {
				return err
			}
			printFile(loc)
		}
		c.Logger.Debug("batch chart", "when", whens[i], "markers", res.Stats.Markers)
	}
	prog.done("Rendered charts", "count", len(results), "to", store.Location())
	return nil
}

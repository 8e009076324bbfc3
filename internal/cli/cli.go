// Package cli implements the starchart command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/starchart/pkg/buildinfo"
	"github.com/matzehuels/starchart/pkg/cache"
	"github.com/matzehuels/starchart/pkg/config"
	"github.com/matzehuels/starchart/pkg/pipeline"
)

const appName = "starchart"

// Levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI is the state shared by every subcommand: the logger, the root
// flags and the lazily loaded config.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	cfg        *config.Config
}

// New returns a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Starchart draws the night sky as seen from a place and time",
		Long:         `Starchart projects a star catalog onto a stereographic sky disc for an observer on Earth and draws constellation figures over it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	for _, sub := range []func() *cobra.Command{
		c.renderCommand, c.batchCommand, c.previewCommand,
		c.frameCommand, c.catalogCommand, c.figuresCommand,
		c.serveCommand, c.cacheCommand,
		c.completionCommand, c.versionCommand,
	} {
		root.AddCommand(sub())
	}
	return root
}

func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// newRunner wires the pipeline to the configured cache and catalog mirror.
// On a terminal, ambiguous place names open the picker.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cfg := c.config()
	runner := pipeline.NewRunner(c.openCache(ctx), cfg.Cache.Keyer(), c.Logger)
	if cfg.Catalog.URL != "" {
		runner.Fetcher = runner.Fetcher.WithURL(cfg.Catalog.URL)
	}
	if isTerminal(os.Stdout) {
		runner.Resolver.Pick = pickPlace
	}
	return runner, nil
}

// openCache never fails: an unreachable backend degrades to no caching.
func (c *CLI) openCache(ctx context.Context) cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	ch, err := cache.Open(ctx, c.config().Cache)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", c.config().Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return ch
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// parseFormats splits "svg, png" into its non-empty items.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Package config loads starchart settings from a TOML file, a .env file and
// STARCHART_* environment variables, in increasing order of precedence.
// Command-line flags are applied on top by the caller.
//
// A minimal starchart.toml:
//
//	[observer]
//	place = "Virginia Beach, VA"
//	tz    = "America/New_York"
//
//	[chart]
//	magnitude_limit = 6.5
//
//	[[figures]]
//	source = "constellations"
//
//	[[figures]]
//	source = "asterisms"
//	color  = "#ff0000"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/starchart/pkg/cache"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/pipeline"
	"github.com/matzehuels/starchart/pkg/storage"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "starchart.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STARCHART_"

// Config is the full file layout.
type Config struct {
	Observer Observer                `toml:"observer"`
	Chart    Chart                   `toml:"chart"`
	Catalog  Catalog                 `toml:"catalog"`
	Figures  []pipeline.FigureSource `toml:"figures"`
	Cache    cache.Config            `toml:"cache"`
	Output   Output                  `toml:"output"`
	Server   Server                  `toml:"server"`
}

// Observer holds the default place and time.
type Observer struct {
	Place     string   `toml:"place"`
	Latitude  *float64 `toml:"lat"`
	Longitude *float64 `toml:"lon"`
	Elevation float64  `toml:"elevation"`
	When      string   `toml:"when"`
	TZ        string   `toml:"tz"`
	Label     string   `toml:"label"`
}

// Chart holds projection and sizing settings.
type Chart struct {
	MagnitudeLimit *float64 `toml:"magnitude_limit"` // nil selects the default; 0 is a valid limit
	MaxMarkerSize  float64  `toml:"max_marker_size"`
	FieldOfView    float64  `toml:"fov"`
	Width          int      `toml:"width"`
	Height         int      `toml:"height"`
	Background     string   `toml:"background"`
	MarkerColor    string   `toml:"marker_color"`
}

// Catalog selects the star source.
type Catalog struct {
	Source string `toml:"source"` // "builtin", "hipparcos" or a path
	Format string `toml:"format"`
	URL    string `toml:"url"` // Hipparcos download location
}

// Output controls rendering and where artifacts go.
type Output struct {
	Target          string   `toml:"target"` // directory or s3://bucket/prefix
	Formats         []string `toml:"formats"`
	Style           string   `toml:"style"`
	Scale           float64  `toml:"scale"`
	MinMarkerRadius float64  `toml:"min_marker_radius"`
	NoTitle         bool     `toml:"no_title"`
	S3              S3       `toml:"s3"`
}

// S3 configures s3:// targets.
type S3 struct {
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// Server configures `starchart serve`.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Observer: Observer{
			Place: pipeline.DefaultPlace,
			When:  pipeline.DefaultWhen,
		},
		Catalog: Catalog{Source: pipeline.DefaultCatalog},
		Cache:   cache.Config{Backend: cache.BackendFile},
		Output: Output{
			Target: ".",
			Style:  pipeline.DefaultStyle,
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// Load reads .env, then the TOML file at path (or DefaultFile if present
// when path is empty), then STARCHART_* variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read .env")
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.decodeFile(path, explicit); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Parse decodes TOML text over the defaults. It does not consult the
// environment.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config key %s", undecoded[0])
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var firstErr error
	num := func(name string, dst *float64) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			if firstErr == nil {
				firstErr = errors.New(errors.ErrCodeInvalidInput, "%s%s: %q is not a number", EnvPrefix, name, v)
			}
			return
		}
		*dst = f
	}
	opt := func(name string, dst **float64) {
		var f float64
		if _, ok := lookup(EnvPrefix + name); !ok {
			return
		}
		num(name, &f)
		*dst = &f
	}

	str("PLACE", &c.Observer.Place)
	opt("LAT", &c.Observer.Latitude)
	opt("LON", &c.Observer.Longitude)
	num("ELEVATION", &c.Observer.Elevation)
	str("WHEN", &c.Observer.When)
	str("TZ", &c.Observer.TZ)
	str("LABEL", &c.Observer.Label)

	opt("MAGNITUDE_LIMIT", &c.Chart.MagnitudeLimit)
	num("FOV", &c.Chart.FieldOfView)

	str("CATALOG", &c.Catalog.Source)
	str("CATALOG_FORMAT", &c.Catalog.Format)
	str("CATALOG_URL", &c.Catalog.URL)

	str("CACHE_BACKEND", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	str("CACHE_NAMESPACE", &c.Cache.Namespace)
	str("REDIS_URL", &c.Cache.RedisURL)
	str("MONGO_URI", &c.Cache.MongoURI)

	str("OUTPUT", &c.Output.Target)
	str("STYLE", &c.Output.Style)
	if v, ok := lookup(EnvPrefix + "FORMATS"); ok {
		c.Output.Formats = splitList(v)
	}
	str("S3_REGION", &c.Output.S3.Region)
	str("S3_ENDPOINT", &c.Output.S3.Endpoint)
	str("S3_ACCESS_KEY", &c.Output.S3.AccessKey)
	str("S3_SECRET_KEY", &c.Output.S3.SecretKey)

	str("ADDR", &c.Server.Addr)
	return firstErr
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Options converts the configuration into pipeline options. Coordinates
// take precedence over the place when both are set.
func (c *Config) Options() pipeline.Options {
	opts := pipeline.Options{
		Place:           c.Observer.Place,
		Elevation:       c.Observer.Elevation,
		When:            c.Observer.When,
		TZ:              c.Observer.TZ,
		Label:           c.Observer.Label,
		Catalog:         c.Catalog.Source,
		CatalogFormat:   c.Catalog.Format,
		Figures:         append([]pipeline.FigureSource(nil), c.Figures...),
		MaxMarkerSize:   c.Chart.MaxMarkerSize,
		FieldOfView:     c.Chart.FieldOfView,
		Width:           c.Chart.Width,
		Height:          c.Chart.Height,
		Background:      c.Chart.Background,
		MarkerColor:     c.Chart.MarkerColor,
		Formats:         append([]string(nil), c.Output.Formats...),
		Style:           c.Output.Style,
		Scale:           c.Output.Scale,
		MinMarkerRadius: c.Output.MinMarkerRadius,
		NoTitle:         c.Output.NoTitle,
	}
	if c.Chart.MagnitudeLimit != nil {
		opts.MagnitudeLimit = *c.Chart.MagnitudeLimit
		opts.HasMagnitudeLimit = true
	}
	if c.Observer.Latitude != nil && c.Observer.Longitude != nil {
		opts.Latitude = *c.Observer.Latitude
		opts.Longitude = *c.Observer.Longitude
		opts.HasCoordinates = true
	}
	return opts
}

// S3Config returns the storage settings for s3:// targets.
func (c *Config) S3Config() storage.S3Config {
	return storage.S3Config{
		Region:    c.Output.S3.Region,
		Endpoint:  c.Output.S3.Endpoint,
		AccessKey: c.Output.S3.AccessKey,
		SecretKey: c.Output.S3.SecretKey,
	}
}

package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/starchart/pkg/cache"
	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/integrations/nominatim"
	"github.com/matzehuels/starchart/pkg/observability"
	"github.com/matzehuels/starchart/pkg/observer"
	"github.com/matzehuels/starchart/pkg/render/chart/sink"
	"github.com/matzehuels/starchart/pkg/sky"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Resolver *observer.Resolver
	Fetcher  *catalog.Fetcher
}

// NewRunner creates a runner with the given cache and keyer. The keyer
// also scopes geocoding and catalog downloads; nil means the default layout.
// If cache is nil, a NullCache is used (caching disabled).
// Geocoding goes through Nominatim and shares the cache.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	geocoder := nominatim.NewClient(c, cache.HTTPTTL)
	geocoder.WithKeyer(keyer)
	fetcher := catalog.NewFetcher(c)
	fetcher.Client().WithKeyer(keyer)
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Resolver: &observer.Resolver{
			Geocoder: geocoder,
			Logger:   logger,
		},
		Fetcher: fetcher,
	}
}

// Execute runs the complete resolve → load → chart → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Resolve
	start := time.Now()
	res, err := r.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Observer = res
	result.Stats.ResolveTime = time.Since(start)
	opts.Logger.Debug("resolved observer",
		"lat", res.Observer.Latitude,
		"lon", res.Observer.Longitude,
		"utc", res.Observer.Instant.Format(time.RFC3339),
		"label", res.Label)

	// Stage 2: Load figures (cheap) and key the scene
	start = time.Now()
	sets, err := r.LoadFigures(ctx, opts)
	if err != nil {
		return nil, err
	}
	sceneKey, err := r.sceneKey(opts, res, sets)
	if err != nil {
		return nil, err
	}

	// Stage 3: Chart, unless the scene is cached
	doc, hit := r.cachedScene(ctx, sceneKey, opts.Refresh)
	result.CacheInfo.SceneHit = hit
	if !hit {
		cat, err := r.LoadCatalog(ctx, opts)
		if err != nil {
			return nil, err
		}
		result.Stats.Stars = cat.Len()
		result.Stats.LoadTime = time.Since(start)
		opts.Logger.Info("loaded sources",
			"catalog", opts.Catalog,
			"stars", cat.Len(),
			"edge_sets", len(sets),
			"duration", result.Stats.LoadTime)

		start = time.Now()
		scene, diag, err := r.Chart(ctx, res, cat.Entries(), sets, opts)
		if err != nil {
			return nil, err
		}
		result.Stats.ChartTime = time.Since(start)

		data, err := sink.RenderJSON(scene, sink.WithJSONDiagnostics(diag), sink.WithJSONObserver(res.Observer, res.Label))
		if err != nil {
			return nil, err
		}
		doc = sink.Document{Scene: scene, Diagnostics: &diag}
		r.store(ctx, "scene", sceneKey, data, cache.ArtifactTTL)
	}

	result.Scene = doc.Scene
	if doc.Diagnostics != nil {
		result.Diagnostics = *doc.Diagnostics
	}
	result.Stats.Markers = result.Diagnostics.Markers
	result.Stats.Segments = result.Diagnostics.Segments
	r.warn(opts.Logger, result.Diagnostics)

	sceneHash, err := cache.HashJSON(result.Scene)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash scene")
	}
	result.SceneHash = sceneHash

	// Stage 4: Render
	start = time.Now()
	in := RenderInput{Scene: result.Scene, Diagnostics: result.Diagnostics, Observer: res.Observer, Label: res.Label}
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, in, sceneHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered chart",
		"formats", opts.Formats,
		"markers", result.Stats.Markers,
		"segments", result.Stats.Segments,
		"scene_cached", result.CacheInfo.SceneHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Resolve settles the observer part of opts.
func (r *Runner) Resolve(ctx context.Context, opts Options) (observer.Resolved, error) {
	resolver := r.Resolver
	if resolver == nil {
		resolver = &observer.Resolver{}
	}
	if opts.Logger != nil && resolver.Logger != opts.Logger {
		cp := *resolver
		cp.Logger = opts.Logger
		resolver = &cp
	}
	return resolver.Resolve(ctx, opts.ObserverRequest())
}

// Chart computes the scene for already loaded sources.
func (r *Runner) Chart(ctx context.Context, res observer.Resolved, entries []sky.CatalogEntry, sets []sky.EdgeSet, opts Options) (sky.Scene, sky.Diagnostics, error) {
	hooks := observability.Pipeline()
	hooks.OnChartStart(ctx, len(entries))
	start := time.Now()

	scene, diag, err := sky.RenderStarChart(res.Observer, entries, sets, opts.ChartOptions(res))

	hooks.OnChartComplete(ctx, observability.ChartStats{
		Stars:           len(entries),
		Markers:         diag.Markers,
		Segments:        diag.Segments,
		Excluded:        diag.Excluded,
		UnresolvedEdges: diag.UnresolvedEdges,
	}, time.Since(start), err)
	return scene, diag, err
}

func (r *Runner) sceneKey(opts Options, res observer.Resolved, sets []sky.EdgeSet) (string, error) {
	catID, err := r.catalogIdentity(opts)
	if err != nil {
		return "", err
	}
	figHash, err := cache.HashJSON(struct {
		Sets   []sky.EdgeSet
		Styles []sky.LineStyle
	}{sets, opts.LayerStyles()})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash figures")
	}
	colors, err := cache.HashJSON([]string{opts.Background, opts.MarkerColor})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash colors")
	}
	return r.Keyer.SceneKey(cache.SceneKeyOpts{
		Latitude:       res.Observer.Latitude,
		Longitude:      res.Observer.Longitude,
		Elevation:      res.Observer.Elevation,
		Instant:        res.Observer.Instant,
		Label:          res.Label,
		Display:        res.Local.Format(sky.TitleLayout),
		MagnitudeLimit: opts.MagnitudeLimit,
		MaxMarkerSize:  opts.MaxMarkerSize,
		FieldOfView:    opts.FieldOfView,
		Width:          opts.Width,
		Height:         opts.Height,
		CatalogHash:    catID,
		FiguresHash:    figHash,
		Style:          colors,
	}), nil
}

func (r *Runner) cachedScene(ctx context.Context, key string, refresh bool) (sink.Document, bool) {
	if refresh {
		return sink.Document{}, false
	}
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "scene")
		return sink.Document{}, false
	}
	doc, err := sink.ParseJSON(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "scene")
		return sink.Document{}, false
	}
	observability.Cache().OnCacheHit(ctx, "scene")
	return doc, true
}

func (r *Runner) store(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func (r *Runner) warn(logger *log.Logger, d sky.Diagnostics) {
	if d.EmptyAfterFilter {
		logger.Warn("no stars pass the magnitude filter; the chart has no markers")
	}
	if d.Excluded > 0 {
		logger.Warn("stars at the projection antipode were left out", "count", d.Excluded)
	}
	if d.UnresolvedEdges > 0 {
		logger.Debug("figure edges reference stars missing from the catalog", "count", d.UnresolvedEdges)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/starchart/pkg/buildinfo"
	"github.com/matzehuels/starchart/pkg/cache"
	"github.com/matzehuels/starchart/pkg/catalog"
	"github.com/matzehuels/starchart/pkg/constellation"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/observability"
	"github.com/matzehuels/starchart/pkg/sky"
)

// catalogIdentity keys the catalog named by opts without reading it: the
// built-in table by version, the remote catalogue by URL, files by size and
// modification time.
func (r *Runner) catalogIdentity(opts Options) (string, error) {
	switch opts.Catalog {
	case catalog.FormatBuiltin:
		return r.Keyer.CatalogKey(catalog.BuiltinName, cache.CatalogKeyOpts{Format: catalog.FormatBuiltin, Version: buildinfo.Version}), nil
	case CatalogHipparcos:
		return r.Keyer.CatalogKey(catalog.HipparcosURL, cache.CatalogKeyOpts{Format: catalog.FormatHipparcos}), nil
	}

	fi, err := os.Stat(opts.Catalog)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s not found", opts.Catalog)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidCatalog, err, "stat catalog %s", opts.Catalog)
	}
	format := opts.CatalogFormat
	if format == "" {
		format = catalog.DetectFormat(opts.Catalog)
	}
	return r.Keyer.CatalogKey(opts.Catalog, cache.CatalogKeyOpts{
		Format:  format,
		Version: fmt.Sprintf("%d-%d", fi.Size(), fi.ModTime().UnixNano()),
	}), nil
}

// LoadCatalog reads the star catalog named by opts.
func (r *Runner) LoadCatalog(ctx context.Context, opts Options) (cat *catalog.Catalog, err error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, "catalog", opts.Catalog)
	start := time.Now()
	defer func() {
		n := 0
		if cat != nil {
			n = cat.Len()
		}
		hooks.OnLoadComplete(ctx, "catalog", opts.Catalog, n, time.Since(start), err)
	}()

	switch opts.Catalog {
	case catalog.FormatBuiltin:
		return catalog.Builtin(), nil
	case CatalogHipparcos:
		return r.Fetcher.Hipparcos(ctx, opts.Refresh)
	default:
		return catalog.Load(opts.Catalog, opts.CatalogFormat)
	}
}

// LoadFigures reads every figure source into an edge set, in order.
func (r *Runner) LoadFigures(ctx context.Context, opts Options) ([]sky.EdgeSet, error) {
	hooks := observability.Pipeline()
	sets := make([]sky.EdgeSet, 0, len(opts.Figures))
	for _, src := range opts.Figures {
		hooks.OnLoadStart(ctx, "figures", src.Source)
		start := time.Now()

		figs, err := loadFigureSource(src.Source)
		set := constellation.Flatten(src.Source, figs)
		hooks.OnLoadComplete(ctx, "figures", src.Source, len(set.Edges), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func loadFigureSource(source string) ([]constellation.Figure, error) {
	if constellation.IsBuiltin(source) {
		return constellation.Builtin(source)
	}
	return constellation.Load(source)
}

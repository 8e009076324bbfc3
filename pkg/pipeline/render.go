package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/starchart/pkg/cache"
	"github.com/matzehuels/starchart/pkg/errors"
	"github.com/matzehuels/starchart/pkg/observability"
	"github.com/matzehuels/starchart/pkg/render/chart/sink"
	"github.com/matzehuels/starchart/pkg/render/chart/styles"
	"github.com/matzehuels/starchart/pkg/sky"
)

// RenderInput is everything the sinks need besides the options.
type RenderInput struct {
	Scene       sky.Scene
	Diagnostics sky.Diagnostics
	Observer    sky.Observer
	Label       string
}

// Render generates output artifacts in the requested formats.
func Render(in RenderInput, opts Options) (map[string][]byte, error) {
	st, err := styles.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}
	sinkOpts := sinkOptions(st, opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(in, format, st, sinkOpts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func sinkOptions(st styles.Style, opts Options) []sink.Option {
	out := []sink.Option{sink.WithStyle(st)}
	if opts.MinMarkerRadius > 0 {
		out = append(out, sink.WithMinMarkerRadius(opts.MinMarkerRadius))
	}
	if opts.Scale > 0 && opts.Scale != 1 {
		out = append(out, sink.WithScale(opts.Scale))
	}
	if opts.NoTitle {
		out = append(out, sink.WithoutTitle())
	}
	return out
}

func renderFormat(in RenderInput, format string, st styles.Style, opts []sink.Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(in.Scene, opts...), nil
	case FormatPNG:
		return sink.RenderPNG(in.Scene, opts...)
	case FormatPDF:
		return sink.RenderPDF(in.Scene, opts...)
	case FormatTXT:
		return sink.RenderText(in.Scene, opts...), nil
	case FormatJSON:
		return sink.RenderJSON(in.Scene,
			sink.WithJSONStyle(st.Name),
			sink.WithJSONObserver(in.Observer, in.Label),
			sink.WithJSONDiagnostics(in.Diagnostics))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

// artifactStyle folds every render option that changes output bytes into
// the artifact cache key.
func artifactStyle(opts Options) string {
	return fmt.Sprintf("%s|r=%g|s=%g|t=%t", opts.Style, opts.MinMarkerRadius, opts.Scale, !opts.NoTitle)
}

// RenderWithCacheInfo renders every requested format, serving each from
// the artifact cache when possible. The boolean reports whether all
// formats were cache hits.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, in RenderInput, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, allHit, err := r.render(ctx, in, sceneHash, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, allHit, err
}

func (r *Runner) render(ctx context.Context, in RenderInput, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sceneHash, cache.ArtifactKeyOpts{Format: format, Style: artifactStyle(opts)})
		if !opts.Refresh {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(in, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(sceneHash, cache.ArtifactKeyOpts{Format: format, Style: artifactStyle(opts)})
		r.store(ctx, "artifact", key, data, cache.ArtifactTTL)
	}
	return artifacts, false, nil
}

// Package observability carries instrumentation events out of the chart
// pipeline.
//
// Libraries never talk to a metrics backend directly. They call the hook
// sets returned by [Pipeline], [Cache] and [HTTP], which default to no-ops.
// The binary that owns the process installs real sinks once at startup,
// typically a [Metrics] value backed by Prometheus:
//
//	m := observability.NewMetrics(prometheus.NewRegistry())
//	observability.SetPipelineHooks(m)
//	defer observability.Reset()
//
// A stage reports its own timing:
//
//	start := time.Now()
//	observability.Pipeline().OnLoadStart(ctx, "catalog", source)
//	cat, err := load(ctx, source)
//	observability.Pipeline().OnLoadComplete(ctx, "catalog", source, cat.Len(), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ChartStats summarises one assembled chart.
type ChartStats struct {
	Stars           int // catalog entries considered
	Markers         int // stars drawn
	Segments        int // figure segments drawn
	Excluded        int // stars below the horizon or outside the field
	UnresolvedEdges int // figure endpoints missing from the catalog
}

// PipelineHooks receives chart pipeline events. Load kinds are "catalog"
// and "figures".
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, kind, source string)
	OnLoadComplete(ctx context.Context, kind, source string, count int, duration time.Duration, err error)

	OnChartStart(ctx context.Context, stars int)
	OnChartComplete(ctx context.Context, stats ChartStats, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is the cache
// namespace ("scene" or "artifact").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives outgoing upstream requests. OnError fires for
// transport failures only; HTTP error statuses arrive via OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnChartStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnChartComplete(context.Context, ChartStats, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// sinks is swapped as a whole so readers never see a half-installed set.
type sinks struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[sinks]

func init() { Reset() }

func update(fn func(s *sinks)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h as the pipeline sink. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *sinks) { s.pipeline = h })
	}
}

// SetCacheHooks installs h as the cache sink. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *sinks) { s.cache = h })
	}
}

// SetHTTPHooks installs h as the HTTP sink. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *sinks) { s.http = h })
	}
}

// Pipeline returns the installed pipeline sink.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache sink.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP sink.
func HTTP() HTTPHooks { return current.Load().http }

// Reset reinstalls the no-op sinks.
func Reset() {
	current.Store(&sinks{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}

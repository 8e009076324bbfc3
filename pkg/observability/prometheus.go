package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements every hook interface on top of Prometheus collectors.
//
//	m, err := observability.NewMetrics(reg)
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//	mux.Handle("/metrics", m.Handler())
type Metrics struct {
	gatherer prometheus.Gatherer

	Loads         *prometheus.CounterVec
	LoadDurations *prometheus.HistogramVec
	Charts        *prometheus.CounterVec
	ChartDuration prometheus.Histogram
	ChartMarkers  prometheus.Histogram
	Excluded      prometheus.Counter
	Unresolved    prometheus.Counter
	Renders       *prometheus.CounterVec
	RenderSeconds *prometheus.HistogramVec
	CacheOps      *prometheus.CounterVec
	CacheBytes    *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
}

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// NewMetrics registers the starchart collectors against reg, defaulting to
// the global Prometheus registry when nil. Registering twice on the same
// registry reuses the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{gatherer: gatherer}
	var err error

	if m.Loads, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "starchart_loads_total",
		Help: "Catalog and figure loads, labeled by kind and result.",
	}, []string{"kind", "result"})); err != nil {
		return nil, err
	}
	if m.LoadDurations, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "starchart_load_duration_seconds",
		Help:    "Catalog and figure load latency in seconds.",
		Buckets: durationBuckets,
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if m.Charts, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "starchart_charts_total",
		Help: "Assembled charts, labeled by result.",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if m.ChartDuration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "starchart_chart_duration_seconds",
		Help:    "Time to project and assemble one chart.",
		Buckets: durationBuckets,
	})); err != nil {
		return nil, err
	}
	if m.ChartMarkers, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "starchart_chart_markers",
		Help:    "Star markers per chart.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})); err != nil {
		return nil, err
	}
	if m.Excluded, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "starchart_excluded_points_total",
		Help: "Stars dropped because they project to infinity.",
	})); err != nil {
		return nil, err
	}
	if m.Unresolved, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "starchart_unresolved_edges_total",
		Help: "Figure edges dropped because a star was missing from the catalog.",
	})); err != nil {
		return nil, err
	}
	if m.Renders, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "starchart_renders_total",
		Help: "Render calls, labeled by format and result.",
	}, []string{"format", "result"})); err != nil {
		return nil, err
	}
	if m.RenderSeconds, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "starchart_render_duration_seconds",
		Help:    "Render latency per format set in seconds.",
		Buckets: durationBuckets,
	}, []string{"format"})); err != nil {
		return nil, err
	}
	if m.CacheOps, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "starchart_cache_operations_total",
		Help: "Cache lookups and writes, labeled by key type and operation.",
	}, []string{"key_type", "op"})); err != nil {
		return nil, err
	}
	if m.CacheBytes, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "starchart_cache_written_bytes_total",
		Help: "Bytes written to the cache, labeled by key type.",
	}, []string{"key_type"})); err != nil {
		return nil, err
	}
	if m.HTTPRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "starchart_upstream_requests_total",
		Help: "Upstream HTTP requests, labeled by host and status code.",
	}, []string{"host", "code"})); err != nil {
		return nil, err
	}
	if m.HTTPDurations, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "starchart_upstream_request_duration_seconds",
		Help:    "Upstream HTTP latency in seconds.",
		Buckets: durationBuckets,
	}, []string{"host"})); err != nil {
		return nil, err
	}

	return m, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := m.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnLoadStart implements PipelineHooks.
func (m *Metrics) OnLoadStart(context.Context, string, string) {}

// OnLoadComplete implements PipelineHooks.
func (m *Metrics) OnLoadComplete(_ context.Context, kind, _ string, _ int, d time.Duration, err error) {
	m.Loads.WithLabelValues(kind, result(err)).Inc()
	m.LoadDurations.WithLabelValues(kind).Observe(d.Seconds())
}

// OnChartStart implements PipelineHooks.
func (m *Metrics) OnChartStart(context.Context, int) {}

// OnChartComplete implements PipelineHooks.
func (m *Metrics) OnChartComplete(_ context.Context, s ChartStats, d time.Duration, err error) {
	m.Charts.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	m.ChartDuration.Observe(d.Seconds())
	m.ChartMarkers.Observe(float64(s.Markers))
	m.Excluded.Add(float64(s.Excluded))
	m.Unresolved.Add(float64(s.UnresolvedEdges))
}

// OnRenderStart implements PipelineHooks.
func (m *Metrics) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements PipelineHooks.
func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		m.Renders.WithLabelValues(f, result(err)).Inc()
		m.RenderSeconds.WithLabelValues(f).Observe(d.Seconds())
	}
}

// OnCacheHit implements CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheOps.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string, string) {}

// OnResponse implements HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(host, fmt.Sprint(code)).Inc()
	m.HTTPDurations.WithLabelValues(host).Observe(d.Seconds())
}

// OnError implements HTTPHooks.
func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.HTTPRequests.WithLabelValues(host, "error").Inc()
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)

// register adds c to reg, returning the already registered collector of the
// same type when there is one.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		var zero T
		return zero, err
	}
	return c, nil
}

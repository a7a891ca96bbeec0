package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	generations        *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	stylesheetColors   *prometheus.CounterVec
	renderDuration     *prometheus.HistogramVec
	cacheOps           *prometheus.CounterVec
	cacheBytes         *prometheus.CounterVec
	invalidations      *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recolor_bundle_generations_total",
				Help: "Bundle generations by theme and result.",
			},
			[]string{"theme", "result"},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recolor_bundle_generation_duration_seconds",
				Help:    "Bundle generation duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"theme"},
		),
		stylesheetColors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recolor_stylesheet_colors_total",
				Help: "Rewritten stylesheet color literals by outcome.",
			},
			[]string{"theme", "outcome"},
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recolor_render_duration_seconds",
				Help:    "Template rendering and slicing duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"theme"},
		),
		cacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recolor_cache_operations_total",
				Help: "Cache lookups and writes by key type.",
			},
			[]string{"key_type", "op"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recolor_cache_written_bytes_total",
				Help: "Bytes written to the cache by key type.",
			},
			[]string{"key_type"},
		),
		invalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recolor_cache_tag_invalidations_total",
				Help: "Cache tag invalidations.",
			},
			[]string{"tag"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		p.generations, p.generationDuration,
		p.stylesheetColors, p.renderDuration,
		p.cacheOps, p.cacheBytes, p.invalidations,
		p.httpRequests, p.httpDuration,
	)
	return p
}

func (p *Prometheus) OnGenerateStart(context.Context, string) {}

func (p *Prometheus) OnGenerateComplete(_ context.Context, theme string, _ int, d time.Duration, err error) {
	p.generations.WithLabelValues(theme, result(err)).Inc()
	p.generationDuration.WithLabelValues(theme).Observe(d.Seconds())
}

func (p *Prometheus) OnStylesheet(_ context.Context, theme, _ string, exact, shifted, kept int) {
	p.stylesheetColors.WithLabelValues(theme, "exact").Add(float64(exact))
	p.stylesheetColors.WithLabelValues(theme, "shifted").Add(float64(shifted))
	p.stylesheetColors.WithLabelValues(theme, "kept").Add(float64(kept))
}

func (p *Prometheus) OnRender(_ context.Context, theme string, _ int, d time.Duration, _ error) {
	p.renderDuration.WithLabelValues(theme).Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnInvalidate(_ context.Context, tag string) {
	p.invalidations.WithLabelValues(tag).Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ BundleHooks = (*Prometheus)(nil)
	_ CacheHooks  = (*Prometheus)(nil)
	_ HTTPHooks   = (*Prometheus)(nil)
)

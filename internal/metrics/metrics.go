// Package metrics collects Prometheus metrics for catalog calls, list view
// slots and the image proxy.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface services and handlers record through. A nil
// *Collector is not valid; use Discard when metrics are not wanted.
type Recorder interface {
	RecordUpstream(endpoint string, statusCode int, duration time.Duration)
	RecordSuperseded(slot string)
	RecordDebounceCollapsed(slot string)
	RecordImageCache(hit bool)
	RecordLiveSession(delta int)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	upstreamRequests  *prometheus.CounterVec
	upstreamLatency   *prometheus.HistogramVec
	superseded        *prometheus.CounterVec
	debounceCollapsed *prometheus.CounterVec
	imageCache        *prometheus.CounterVec
	liveSessions      prometheus.Gauge
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviez_upstream_requests_total",
			Help: "Catalog API requests by endpoint and status code.",
		}, []string{"endpoint", "status_code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moviez_upstream_latency_seconds",
			Help:    "Catalog API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		superseded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviez_listview_superseded_total",
			Help: "List results dropped because a newer fetch began in the same slot.",
		}, []string{"slot"}),
		debounceCollapsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviez_listview_debounce_collapsed_total",
			Help: "Pending search fetches replaced by a newer keystroke.",
		}, []string{"slot"}),
		imageCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moviez_image_cache_total",
			Help: "Image proxy cache lookups by result.",
		}, []string{"result"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "moviez_live_sessions",
			Help: "Open live view websocket sessions.",
		}),
	}

	reg.MustRegister(
		c.upstreamRequests,
		c.upstreamLatency,
		c.superseded,
		c.debounceCollapsed,
		c.imageCache,
		c.liveSessions,
	)
	return c
}

// RecordUpstream records one catalog request. statusCode is 0 for transport
// errors.
func (c *Collector) RecordUpstream(endpoint string, statusCode int, duration time.Duration) {
	c.upstreamRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.upstreamLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (c *Collector) RecordSuperseded(slot string) {
	c.superseded.WithLabelValues(slot).Inc()
}

func (c *Collector) RecordDebounceCollapsed(slot string) {
	c.debounceCollapsed.WithLabelValues(slot).Inc()
}

func (c *Collector) RecordImageCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.imageCache.WithLabelValues(result).Inc()
}

func (c *Collector) RecordLiveSession(delta int) {
	c.liveSessions.Add(float64(delta))
}

type discard struct{}

func (discard) RecordUpstream(string, int, time.Duration) {}
func (discard) RecordSuperseded(string)                   {}
func (discard) RecordDebounceCollapsed(string)            {}
func (discard) RecordImageCache(bool)                     {}
func (discard) RecordLiveSession(int)                     {}

// Discard is a Recorder that drops everything.
var Discard Recorder = discard{}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

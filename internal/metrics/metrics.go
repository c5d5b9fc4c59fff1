// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics interface consumed by services and middleware.
type Recorder interface {
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
	RecordRegistration()
	RecordLogin()
	RecordCountrySaved()
	RecordCountryUnsaved()
}

// Collector records metrics into a Prometheus registry.
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpLatency      prometheus.Histogram
	registrations    prometheus.Counter
	logins           prometheus.Counter
	countriesSaved   prometheus.Counter
	countriesUnsaved prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growthboard_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "path", "status"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "growthboard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "growthboard_registrations_total",
			Help: "Successful user registrations",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "growthboard_logins_total",
			Help: "Successful logins",
		}),
		countriesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "growthboard_countries_saved_total",
			Help: "Countries saved by users",
		}),
		countriesUnsaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "growthboard_countries_unsaved_total",
			Help: "Countries unsaved by users",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.registrations,
		c.logins,
		c.countriesSaved,
		c.countriesUnsaved,
	)

	return c
}

// RecordHTTPRequest records one handled HTTP request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// RecordRegistration records a successful registration.
func (c *Collector) RecordRegistration() { c.registrations.Inc() }

// RecordLogin records a successful login.
func (c *Collector) RecordLogin() { c.logins.Inc() }

// RecordCountrySaved records a saved country.
func (c *Collector) RecordCountrySaved() { c.countriesSaved.Inc() }

// RecordCountryUnsaved records an unsaved country.
func (c *Collector) RecordCountryUnsaved() { c.countriesUnsaved.Inc() }

// Noop discards all metrics. Used in tests.
type Noop struct{}

func (Noop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Noop) RecordRegistration()                                  {}
func (Noop) RecordLogin()                                         {}
func (Noop) RecordCountrySaved()                                  {}
func (Noop) RecordCountryUnsaved()                                {}

// Handler returns the HTTP handler serving the /metrics scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency for every handled request.
// The path label uses the chi route pattern, not the raw URL, to keep
// cardinality bounded.
func Middleware(rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			rec.RecordHTTPRequest(r.Method, path, ww.Status(), time.Since(start))
		})
	}
}

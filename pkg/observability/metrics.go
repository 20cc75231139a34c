package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for assertion decisions
const (
	OutcomeGranted      = "granted"
	OutcomeDenied       = "denied"
	OutcomeUnrestricted = "unrestricted"
	OutcomeUnresolvable = "unresolvable"
	OutcomeError        = "error"
)

// Metrics holds the Prometheus metrics of the scoping layer
type Metrics struct {
	// Assertion metrics
	AssertionsTotal    *prometheus.CounterVec
	AssertionCacheHits *prometheus.CounterVec

	// Filter metrics
	FilterApplicationsTotal *prometheus.CounterVec
	FilterSkipsTotal        *prometheus.CounterVec

	// Leaf dependency metrics
	SettingsLookupsTotal *prometheus.CounterVec
	GrantLookupsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the scoping metrics on a registry.
// Passing nil registers on the default registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		AssertionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteward_assertions_total",
				Help: "Total number of access assertions by outcome",
			},
			[]string{"outcome"},
		),
		AssertionCacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteward_assertion_cache_hits_total",
				Help: "Request-scoped cache hits during assertions",
			},
			[]string{"cache"},
		),
		FilterApplicationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteward_filter_applications_total",
				Help: "Query filters applied, by resource type",
			},
			[]string{"resource"},
		),
		FilterSkipsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteward_filter_skips_total",
				Help: "Query filters skipped, by resource type and reason",
			},
			[]string{"resource", "reason"},
		),
		SettingsLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteward_settings_lookups_total",
				Help: "Settings store lookups by status",
			},
			[]string{"status"},
		),
		GrantLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteward_grant_lookups_total",
				Help: "Grant table lookups by table and status",
			},
			[]string{"table", "status"},
		),
	}

	collectors := []prometheus.Collector{
		m.AssertionsTotal,
		m.AssertionCacheHits,
		m.FilterApplicationsTotal,
		m.FilterSkipsTotal,
		m.SettingsLookupsTotal,
		m.GrantLookupsTotal,
	}

	for _, c := range collectors {
		if registry != nil {
			registry.MustRegister(c)
		} else {
			prometheus.MustRegister(c)
		}
	}

	return m
}

// Handler returns the HTTP handler serving a registry's metrics.
func Handler(registry *prometheus.Registry) http.Handler {
	if registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

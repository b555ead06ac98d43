package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerCalls    *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	degradedSections *prometheus.CounterVec
	reports          *prometheus.CounterVec
	reportDuration   prometheus.Histogram
	errorsTotal      *prometheus.CounterVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_provider_calls_total",
				Help: "Total number of external provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketbrief_provider_call_duration_seconds",
				Help:    "Duration of external provider calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 6, 10, 15},
			},
			[]string{"provider"},
		),
		degradedSections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_degraded_sections_total",
				Help: "Report sections rendered with at least one unavailable input",
			},
			[]string{"section"},
		),
		reports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_reports_total",
				Help: "Report generation runs by status",
			},
			[]string{"status"},
		),
		reportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "marketbrief_report_duration_seconds",
				Help:    "Duration of a full report generation run",
				Buckets: []float64{1, 5, 15, 30, 60, 70, 90, 120, 180},
			},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketbrief_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
	reg.MustRegister(r.providerCalls, r.providerLatency, r.degradedSections, r.reports, r.reportDuration, r.errorsTotal)
	return r
}

// RecordProviderCall records one provider call and its latency.
func (r *Recorder) RecordProviderCall(provider, outcome string, seconds float64) {
	r.providerCalls.WithLabelValues(provider, outcome).Inc()
	r.providerLatency.WithLabelValues(provider).Observe(seconds)
}

// RecordDegradedSection counts a section rendered from fallback text.
func (r *Recorder) RecordDegradedSection(section string) {
	r.degradedSections.WithLabelValues(section).Inc()
}

// RecordReport records the outcome of a run.
func (r *Recorder) RecordReport(status string, seconds float64) {
	r.reports.WithLabelValues(status).Inc()
	r.reportDuration.Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordProviderCall(string, string, float64) {}
func (Nop) RecordDegradedSection(string)               {}
func (Nop) RecordReport(string, float64)               {}
func (Nop) RecordError(string)                         {}

package logger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome and kind label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"

	KindStructure = "structure"
	KindField     = "field"
	KindOther     = "other"
)

// Metrics holds the Prometheus collectors for bulletin fetching and parsing.
// All collectors are safe for concurrent use.
type Metrics struct {
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram
	EventsParsed  prometheus.Counter
	ParseErrors   *prometheus.CounterVec // labels: kind={structure,field,other}
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is what tests and one-shot CLI
// runs want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kandilli",
			Name:      "fetch_total",
			Help:      "Bulletin page fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kandilli",
			Name:      "fetch_duration_seconds",
			Help:      "Time to download and decode the bulletin page.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EventsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kandilli",
			Name:      "events_parsed_total",
			Help:      "Events successfully parsed from bulletin rows.",
		}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kandilli",
			Name:      "parse_errors_total",
			Help:      "Bulletin parse failures by kind.",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(m.FetchRequests, m.FetchDuration, m.EventsParsed, m.ParseErrors)
	}

	return m
}

// ObserveFetch records one fetch attempt.
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.FetchRequests.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(d.Seconds())
}

// ObserveParse records the result of parsing a page.
func (m *Metrics) ObserveParse(events int, kind string) {
	if m == nil {
		return
	}
	if kind != "" {
		m.ParseErrors.WithLabelValues(kind).Inc()
		return
	}
	m.EventsParsed.Add(float64(events))
}

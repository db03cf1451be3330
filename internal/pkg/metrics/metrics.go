package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "detailing_ops"

// Metrics owns a private registry so tests can create independent instances.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	RecordsUpserted     *prometheus.CounterVec
	RecordsCleared      prometheus.Counter
	ReportsGenerated    *prometheus.CounterVec
	ReportDuration      *prometheus.HistogramVec
	OverRecordedMonths  prometheus.Counter
	PayslipsSent        *prometheus.CounterVec
	ExportsWritten      prometheus.Counter
	StreamSubscriptions prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RecordsUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attendance",
			Name:      "records_upserted_total",
			Help:      "Daily attendance records written, by status.",
		}, []string{"status"}),
		RecordsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attendance",
			Name:      "records_cleared_total",
			Help:      "Daily attendance records removed by month clears.",
		}),
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "generated_total",
			Help:      "Attendance reports generated, by kind.",
		}, []string{"kind"}),
		ReportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "duration_seconds",
			Help:      "Time to build an attendance report, by kind.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"kind"}),
		OverRecordedMonths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "over_recorded_summaries_total",
			Help:      "Employee summaries whose recorded days exceeded the working days.",
		}),
		PayslipsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payslip",
			Name:      "sent_total",
			Help:      "Payslip notices by outcome.",
		}, []string{"result"}),
		ExportsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "exports_written_total",
			Help:      "Workbooks stored by the scheduled export.",
		}),
		StreamSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "subscriptions",
			Help:      "Open attendance event streams.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.RecordsUpserted,
		m.RecordsCleared,
		m.ReportsGenerated,
		m.ReportDuration,
		m.OverRecordedMonths,
		m.PayslipsSent,
		m.ExportsWritten,
		m.StreamSubscriptions,
	)

	return m
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveReport records one generated report of the given kind.
func (m *Metrics) ObserveReport(kind string, started time.Time) {
	m.ReportsGenerated.WithLabelValues(kind).Inc()
	m.ReportDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// Package metrics holds the Prometheus collectors of the lead pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	LeadsCreated      *prometheus.CounterVec
	CallsLogged       *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
	Escalations       prometheus.Counter
	WhatsAppSent      *prometheus.CounterVec
	Appointments      prometheus.Counter
	ParseConfidence   prometheus.Histogram
}

// New creates a Metrics instance registered on its own registry, so several
// instances can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		LeadsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Leads captured, by source",
		}, []string{"source"}),
		CallsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lead_calls_logged_total",
			Help: "Logged call attempts, by disposition",
		}, []string{"disposition"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lead_status_transitions_total",
			Help: "Pipeline status changes, by target status code",
		}, []string{"to"}),
		Escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lead_escalations_total",
			Help: "Leads closed automatically after repeated failed calls",
		}),
		WhatsAppSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lead_whatsapp_sent_total",
			Help: "WhatsApp messages logged, by template code",
		}, []string{"template"}),
		Appointments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lead_appointments_scheduled_total",
			Help: "Appointments scheduled",
		}),
		ParseConfidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contact_parse_confidence",
			Help:    "Confidence score of parsed contact texts",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LeadsCreated,
		m.CallsLogged,
		m.StatusTransitions,
		m.Escalations,
		m.WhatsAppSent,
		m.Appointments,
		m.ParseConfidence,
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenda-cultural/agenda-api/internal/models"
)

// Metrics holds the Prometheus collectors of the API.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	transiciones *prometheus.CounterVec
	vistasEvento prometheus.Counter
}

// New registers the application collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transiciones: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "solicitudes",
			Name:      "transiciones_total",
			Help:      "Workflow transitions applied to flyer requests.",
		}, []string{"desde", "hacia"}),
		vistasEvento: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "eventos",
			Name:      "vistas_total",
			Help:      "Event view registrations.",
		}),
	}

	registry.MustRegister(m.httpRequests, m.httpDuration, m.transiciones, m.vistasEvento)
	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware observes every request by its registered route template so
// path parameters do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObservarTransicion counts an applied workflow transition.
func (m *Metrics) ObservarTransicion(desde, hacia models.EstadoSolicitud) {
	if m == nil {
		return
	}
	m.transiciones.WithLabelValues(string(desde), string(hacia)).Inc()
}

// ObservarVista counts an event view registration.
func (m *Metrics) ObservarVista() {
	if m == nil {
		return
	}
	m.vistasEvento.Inc()
}

// Package metrics expone métricas Prometheus de las peticiones HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics agrupa los colectores de peticiones HTTP de un servicio.
type HTTPMetrics struct {
	service  string
	gatherer prometheus.Gatherer

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	denied   *prometheus.CounterVec
}

// NewHTTPMetrics registra los colectores en reg. Con reg nil usa el registro por defecto.
func NewHTTPMetrics(service string, reg *prometheus.Registry) *HTTPMetrics {
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	m := &HTTPMetrics{
		service:  service,
		gatherer: gatherer,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total de peticiones HTTP",
		}, []string{"service", "method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP en segundos",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		denied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Peticiones rechazadas por falta de permiso (módulo, acción)",
		}, []string{"service", "module", "action"}),
	}
	registerer.MustRegister(m.requests, m.duration, m.denied)
	return m
}

// Middleware registra cada petición con la ruta declarada (no la URL) para acotar la cardinalidad.
func (m *HTTPMetrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.requests.WithLabelValues(m.service, c.Method(), route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(m.service, c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Denied cuenta un rechazo de autorización.
func (m *HTTPMetrics) Denied(module, action string) {
	m.denied.WithLabelValues(m.service, module, action).Inc()
}

// Handler expone las métricas en formato Prometheus.
func (m *HTTPMetrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}

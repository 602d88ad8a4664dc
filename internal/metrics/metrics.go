// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	BlogsCreated        prometheus.Counter
	BlogsDeleted        prometheus.Counter
	UsersRegistered     prometheus.Counter
	AuthFailures        *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, so several instances can
// coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloglist_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"path", "method", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloglist_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		BlogsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloglist_blogs_created_total",
			Help: "Total number of blogs created",
		}),
		BlogsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloglist_blogs_deleted_total",
			Help: "Total number of blogs deleted",
		}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloglist_users_registered_total",
			Help: "Total number of registered users",
		}),
		AuthFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloglist_auth_failures_total",
			Help: "Rejected authentication attempts by reason",
		}, []string{"reason"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

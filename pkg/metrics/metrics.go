package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the Prometheus metrics of the publisher. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	runsTotal         *prometheus.CounterVec
	runDuration       *prometheus.HistogramVec
	containerPolls    *prometheus.CounterVec
	alertsDispatched  *prometheus.CounterVec
	httpRequestsTotal *prometheus.CounterVec
	serviceInfo       *prometheus.GaugeVec
}

// NewCollector creates the metrics on a dedicated registry.
func NewCollector(serviceName, version string) *Collector {
	prefix := strings.ReplaceAll(serviceName, "-", "_")
	if prefix == "" {
		prefix = "daily_post"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_publish_runs_total",
			Help: "Publish coordinator outcomes",
		},
		[]string{"status", "mode"},
	)

	c.runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_publish_run_duration_seconds",
			Help:    "Duration of publish coordinator runs",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"status"},
	)

	c.containerPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_media_container_polls_total",
			Help: "Media container status polls by outcome",
		},
		[]string{"outcome"},
	)

	c.alertsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_alerts_dispatched_total",
			Help: "Alert deliveries by event and outcome",
		},
		[]string{"event", "outcome"},
	)

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	c.serviceInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_service_info",
			Help: "Service information",
		},
		[]string{"version"},
	)

	c.registry.MustRegister(
		c.runsTotal,
		c.runDuration,
		c.containerPolls,
		c.alertsDispatched,
		c.httpRequestsTotal,
		c.serviceInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c.serviceInfo.WithLabelValues(version).Set(1)
	return c
}

func (c *Collector) ObserveRun(status, mode string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.runsTotal.WithLabelValues(status, mode).Inc()
	c.runDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (c *Collector) ContainerPoll(outcome string) {
	if c == nil {
		return
	}
	c.containerPolls.WithLabelValues(outcome).Inc()
}

func (c *Collector) AlertDispatched(event, outcome string) {
	if c == nil {
		return
	}
	c.alertsDispatched.WithLabelValues(event, outcome).Inc()
}

// Registry exposes the underlying registry for tests and custom collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware counts HTTP requests by method and status.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if c != nil {
			c.httpRequestsTotal.WithLabelValues(ctx.Method(), strconv.Itoa(ctx.Response().StatusCode())).Inc()
		}
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}

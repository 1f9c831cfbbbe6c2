package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector("daily-post", "test")

	c.ObserveRun("posted", "cron", 2*time.Second)
	c.ObserveRun("posted", "cron", time.Second)
	c.ContainerPoll("ready")
	c.AlertDispatched("publish_failed", "delivered")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.runsTotal.WithLabelValues("posted", "cron")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.containerPolls.WithLabelValues("ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.alertsDispatched.WithLabelValues("publish_failed", "delivered")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRun("failed", "manual", time.Second)
		c.ContainerPoll("pending")
		c.AlertDispatched("publish_succeeded", "error")
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("daily-post", "test")
	c.ObserveRun("skipped", "manual", time.Millisecond)

	app := fiber.New()
	app.Use(c.Middleware())
	app.Get("/metrics", c.Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `daily_post_publish_runs_total{mode="manual",status="skipped"} 1`)
}

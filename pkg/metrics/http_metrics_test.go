package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/pkg/metrics"
)

func TestMiddleware_CuentaPorRuta(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics("logistica-test", reg)

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/orders/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/orders/"+id, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	n, err := testutil.GatherAndCount(reg, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "ambas peticiones comparten la serie de la ruta /orders/:id")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `route="/orders/:id"`)
}

func TestDenied(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics("logistica-test", reg)
	m.Denied("ORDENES", "CREAR")

	n, err := testutil.GatherAndCount(reg, "authz_denied_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

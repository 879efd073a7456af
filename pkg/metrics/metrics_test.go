package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics("catalog", reg)

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/products/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/products/"+id, nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("catalog", "GET", "/products/:id", "404"))
	if got != 2 {
		t.Fatalf("requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.statusCategory.WithLabelValues("catalog", "4xx", "GET", "/products/:id")); got != 2 {
		t.Fatalf("4xx = %v, want 2", got)
	}
}

func TestEditorMetrics(t *testing.T) {
	m := NewEditorMetrics(prometheus.NewRegistry())
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.Submitted(OutcomeSaved, time.Now())
	m.Uploaded(false)

	if got := testutil.ToFloat64(m.sessions); got != 1 {
		t.Errorf("sessions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.submits.WithLabelValues(OutcomeSaved)); got != 1 {
		t.Errorf("saved submits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.uploads.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed uploads = %v, want 1", got)
	}

	var nilMetrics *EditorMetrics
	nilMetrics.SessionOpened()
	nilMetrics.Submitted(OutcomeInvalid, time.Now())
}

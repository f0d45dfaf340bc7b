package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	metrics, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registry})
	if err != nil {
		t.Fatalf("NewHTTPMetrics returned error: %v", err)
	}

	router := gin.New()
	router.Use(metrics.Handler())
	router.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}

	var sawCounter bool
	for _, family := range families {
		if family.GetName() != "kiosk_http_requests_total" {
			continue
		}
		sawCounter = true
		if len(family.GetMetric()) != 1 {
			t.Fatalf("expected one labeled series, got %d", len(family.GetMetric()))
		}
		if got := family.GetMetric()[0].GetCounter().GetValue(); got != 1 {
			t.Fatalf("expected counter value 1, got %v", got)
		}
	}

	if !sawCounter {
		t.Fatal("request counter was not registered")
	}
}

func TestHTTPMetricsReregistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	if _, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registry}); err != nil {
		t.Fatalf("first registration returned error: %v", err)
	}
	if _, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registry}); err != nil {
		t.Fatalf("second registration should reuse collectors, got error: %v", err)
	}
}

package routes_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CodyErekson/kitchenKiosk/internal/infra/config"
	httproutes "github.com/CodyErekson/kitchenKiosk/internal/transport/http/routes"
)

type staticChecker struct {
	err error
}

func (s staticChecker) Ping(context.Context) error        { return s.err }
func (s staticChecker) HealthCheck(context.Context) error { return s.err }

func newRouter(dbErr, cacheErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger, _ := zap.NewDevelopment()
	cfg := &config.AppConfig{App: config.AppSettings{Env: "test"}}

	return httproutes.Register(httproutes.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Database: staticChecker{err: dbErr},
		Cache:    staticChecker{err: cacheErr},
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newRouter(nil, nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestHealthEndpointDegraded(t *testing.T) {
	r := newRouter(nil, errors.New("connection refused"))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newRouter(nil, nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

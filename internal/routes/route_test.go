package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/config"
	"pv-bknd/internal/logger"
	"pv-bknd/internal/services"
)

func newTestRouter() http.Handler {
	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:5173"}}
	logr := &logger.Logger{Logger: zap.NewNop()}
	sizing := services.NewSizingService(catalog.Default(), nil, nil, logr.Logger)
	return NewRouter(Services{Sizing: sizing}, cfg, logr)
}

func TestRouter(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", want: http.StatusOK},
		{name: "climate", method: http.MethodGet, path: "/api/v1/sizing/climate?postalCode=67000", want: http.StatusOK},
		{name: "standards", method: http.MethodGet, path: "/api/v1/sizing/standards?section=6", want: http.StatusOK},
		{name: "ac cable", method: http.MethodPost, path: "/api/v1/sizing/cables/ac", body: `{"powerW":3000,"distanceM":5}`, want: http.StatusOK},
		{name: "wrong method", method: http.MethodGet, path: "/api/v1/sizing/cables/ac", want: http.StatusMethodNotAllowed},
		{name: "catalog disabled without db", method: http.MethodGet, path: "/api/v1/catalog/", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sizing/report", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

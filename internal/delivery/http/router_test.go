package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kervela/product_catalog/internal/config"
	"github.com/kervela/product_catalog/internal/delivery/http/handler"
	"github.com/kervela/product_catalog/internal/pkg/logger"
)

func newTestRouter() http.Handler {
	log := logger.New("test")
	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
	}

	// Routes under test never reach the product handler
	productHandler := handler.NewProductHandler(nil, log)
	router := NewRouter(productHandler, nil, cfg, log)
	return router.Setup()
}

func TestRouter_UnmatchedRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.Equal(t, "Not Found", body["message"])
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/products/1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.Equal(t, "Not Found", body["message"])
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/vastramitra/vastramitra-api/config"
	"github.com/vastramitra/vastramitra-api/tests/testutil"
)

// setupRouter mounts the full route table behind the mock authenticator, without the realtime hub
// or rate limiting
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerRoutes(router, &config.Config{CORSOrigins: "*", UploadDir: "./uploads"}, testutil.MockAuth(), nil, nil)
	return router
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "VastraMitra API is running", response["message"])
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	router := setupRouter()

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		req, _ := http.NewRequest(method, "/api/v1/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be allowed", method)
	}
}

// TestAPIV1Prefix tests that the endpoint requires /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")

	req, _ = http.NewRequest("GET", "/api/v1/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "Endpoint should work with /api/v1 prefix")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := setupRouter()

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/users/me"},
		{"GET", "/api/v1/orders"},
		{"POST", "/api/v1/appointments"},
		{"GET", "/api/v1/payments"},
		{"GET", "/api/v1/notifications"},
		{"GET", "/api/v1/dashboard"},
	}
	for _, route := range routes {
		req, _ := http.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s should require a token", route.method, route.path)
	}
}

func TestPublicPricingRoute(t *testing.T) {
	testutil.NewTestDB(t)
	defer config.SetDB(nil)
	router := setupRouter()

	req, _ := http.NewRequest("GET", "/api/v1/pricing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestWorkshopRoutesRejectCustomerTokens(t *testing.T) {
	router := setupRouter()

	routes := []struct{ method, path string }{
		{"GET", "/api/v1/dashboard"},
		{"GET", "/api/v1/payments"},
		{"PATCH", "/api/v1/orders/o1/status"},
		{"PUT", "/api/v1/pricing/lehenga"},
	}
	for _, route := range routes {
		req, _ := http.NewRequest(route.method, route.path, nil)
		req.Header.Set(testutil.TestUserHeader, "auth0|priya")
		req.Header.Set(testutil.TestRoleHeader, "customer")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s should be closed to customers", route.method, route.path)
	}
}

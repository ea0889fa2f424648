package catalog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter(t *testing.T) (*gin.Engine, *MockClientRepository, *MockMedicineRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service, mockClients, mockMeds := loadedService(t)
	r := gin.New()
	NewHandler(service).RegisterRoutes(r.Group("/"))
	return r, mockClients, mockMeds
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateClient_ReportsFieldFailures(t *testing.T) {
	r, mockClients, _ := testRouter(t)

	w := postJSON(r, "/clients", `{"nombre":"María"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"details"`)
	assert.Contains(t, w.Body.String(), `"Apellido":"required"`)
	mockClients.AssertNotCalled(t, "Create")
}

func TestHandler_CreateMedicine_ReportsFieldFailures(t *testing.T) {
	r, _, mockMeds := testRouter(t)

	w := postJSON(r, "/medicines", `{"nombre":"Ibuprofeno 400mg","precio_farmacia":-3}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"PrecioFarmacia":"gte"`)
	mockMeds.AssertNotCalled(t, "Create")
}

func TestHandler_Reload_RejectsUnknownSource(t *testing.T) {
	r, _, _ := testRouter(t)

	w := postJSON(r, "/catalog/reload?source=ftp", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Reload_RemoteWithoutMirror(t *testing.T) {
	r, _, _ := testRouter(t)

	w := postJSON(r, "/catalog/reload?source=remote", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "REMOTE_UNAVAILABLE")
}

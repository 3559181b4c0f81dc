package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/soorozco/controldoc/internal/cache"
	"github.com/soorozco/controldoc/internal/db/models"
	"github.com/soorozco/controldoc/internal/services"
	"github.com/soorozco/controldoc/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Document{},
		&models.Record{},
		&models.Person{},
		&models.StatusLogEntry{},
	))

	logger := zap.NewNop()
	collector := metrics.NewMetricsCollector()
	snapshots := cache.New()

	router := NewRouter(
		logger,
		collector,
		services.NewDocumentService(db, snapshots, logger, collector),
		services.NewRecordService(db, snapshots, logger, collector),
		services.NewPersonnelService(db, snapshots, logger, collector),
	)
	router.SetupRoutes()
	return router
}

func doRequest(router *Router, method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.GetEngine().ServeHTTP(recorder, req)
	return recorder
}

const uploadBody = `{
	"Código": "PR-010",
	"Nombre del Documento": "Control de Documentos",
	"Fecha de revisión": "01/02/2027",
	"Desarrollo del Proceso": {"table": [
		{"Número": 1, "Descripción": "Usar el formato F-003", "Responsable": "Quality"}
	]}
}`

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	resp := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"up"`)
}

func TestUploadEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := doRequest(router, http.MethodPost, "/api/documents/upload", uploadBody)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"codigo":"PR-010"`)
	assert.Contains(t, resp.Body.String(), `"F-003"`)

	// Same code again: warning, nothing inserted.
	resp = doRequest(router, http.MethodPost, "/api/documents/upload", uploadBody)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "warning")
}

func TestUploadEndpoint_MalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	resp := doRequest(router, http.MethodPost, "/api/documents/upload", `{"Código": `)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTransitionEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := doRequest(router, http.MethodPost, "/api/documents/upload", uploadBody)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doRequest(router, http.MethodPost, "/api/documents/PR-010/estado",
		`{"nuevo_estado": "Approved", "comentarios": "ok"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"estado_anterior":"Draft"`)
	assert.Contains(t, resp.Body.String(), `"nuevo_estado":"Approved"`)

	resp = doRequest(router, http.MethodGet, "/api/log-estados?codigo=PR-010", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"Approved"`)
}

func TestRecordFilterEndpoint(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{
		`{"codigo": "F-001", "documento_origen": "PR-001", "estado": "Activo"}`,
		`{"codigo": "F-002", "documento_origen": "PR-002", "estado": "Activo"}`,
	} {
		resp := doRequest(router, http.MethodPost, "/api/registros", body)
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := doRequest(router, http.MethodGet, "/api/registros?documento_origen=PR-001", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "F-001")
	assert.NotContains(t, resp.Body.String(), "F-002")
}

func TestPersonnelGuardEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := doRequest(router, http.MethodPost, "/api/personal",
		`{"nombre_completo": "Ana Pérez", "cargo": "Auditora"}`)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doRequest(router, http.MethodDelete, "/api/personal/Ana%20P%C3%A9rez", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(router, http.MethodDelete, "/api/personal/Ana%20P%C3%A9rez", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPersonnelExportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp := doRequest(router, http.MethodPost, "/api/personal",
		`{"nombre_completo": "Luis Gómez"}`)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doRequest(router, http.MethodGet, "/api/personal/export", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Body.String(), "Luis Gómez")
}

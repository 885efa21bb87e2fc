package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"jumboscan/internal/config"
	"jumboscan/internal/infra"
	"jumboscan/internal/importer"
	"jumboscan/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const admin = "jefa@tienda.cl"

type app struct {
	t      *testing.T
	engine *gin.Engine
}

func writePlanilla(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	filas := [][]any{
		{"Sección", "Código SAP", "EAN", "Descripción", "Stock", "UMB", "Precio", "Imagen"},
		{"LACTEOS", "100200", "7801234567890", "YOGURT FRUTILLA", "12", "UN", "990", ""},
		{"ABARROTES", "100300", "7801234567891", "ARROZ GRADO 1", "3", "KG", "1490", ""},
	}
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", celda, &fila))
	}
	ruta := filepath.Join(t.TempDir(), "productos.xlsx")
	require.NoError(t, f.SaveAs(ruta))
	return ruta
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := infra.NewDatabase(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, infra.AsegurarEsquema(context.Background(), db))

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "secreto-de-prueba",
		JWTExpirationHours: 1,
		AdminEmails:        admin,
		ExcelPath:          writePlanilla(t),
		SystemEmail:        "sistema@auto.local",
		TimeZone:           "UTC",
		AlertThresholdDays: 15,
		CacheTTL:           time.Hour,
	}
	cache := infra.NewCacheProductos(nil, cfg.CacheTTL)
	imp := importer.New(db, repository.NewProductoRepository(db), repository.NewVencimientoRepository(db), importer.Opciones{
		EmailSistema: cfg.SystemEmail,
		Zona:         time.UTC,
		Invalidador:  cache,
	})

	return &app{t: t, engine: New(Deps{Cfg: cfg, DB: db, Cache: cache, Importador: imp})}
}

func (a *app) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-access-token", token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *app) login(nombre, email string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"nombre": nombre, "email": email, "password": "1234"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "1234"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
	assert.Contains(t, w.Body.String(), `"db":"connected"`)
}

func TestAuthFlow(t *testing.T) {
	a := newApp(t)
	token := a.login("Ana", "ana@tienda.cl")

	w := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"nombre": "Ana", "email": "ANA@tienda.cl", "password": "1234"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "x@y.cl"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@tienda.cl", "password": "mala"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"ana@tienda.cl"`)

	w = a.do(http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Token no encontrado"}`, w.Body.String())
}

func TestImportThenScan(t *testing.T) {
	a := newApp(t)
	user := a.login("Ana", "ana@tienda.cl")
	jefa := a.login("Jefa", admin)

	w := a.do(http.MethodPost, "/api/admin/import", user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/api/admin/import/ultimo", jefa, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/api/admin/import", jefa, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"productos_cargados":2`)

	w = a.do(http.MethodGet, "/api/admin/import/ultimo", jefa, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/products/ean/7801234567890", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"nombre":"YOGURT FRUTILLA"`)
	assert.Contains(t, w.Body.String(), `"ubicacion":"LACTEOS"`)

	w = a.do(http.MethodGet, "/api/products/ean/100300", user, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/products/ean/000", user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Producto no encontrado"}`, w.Body.String())

	w = a.do(http.MethodGet, "/api/products/search/arroz", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hallados []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hallados))
	require.Len(t, hallados, 1)
	assert.Equal(t, "100300", hallados[0]["sap"])
}

func TestAlerts(t *testing.T) {
	a := newApp(t)
	token := a.login("Ana", "ana@tienda.cl")

	w := a.do(http.MethodPost, "/api/alerts", token, map[string]string{"ean": "780"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Falta la fecha de vencimiento")

	manana := time.Now().UTC().AddDate(0, 0, 1).Format(time.DateOnly)
	w = a.do(http.MethodPost, "/api/alerts", token, map[string]string{"ean": "780", "nombre": "LECHE", "fecha": manana})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/alerts", token, map[string]string{"ean": "780", "nombre": "LECHE", "fecha": manana})
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/api/alerts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var alertas []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alertas))
	require.Len(t, alertas, 1)
	assert.Equal(t, "alerta", alertas[0]["estado"])
	assert.Equal(t, "ana@tienda.cl", alertas[0]["usuario"])
	assert.Equal(t, "LECHE", alertas[0]["nombre"])
	assert.Equal(t, manana, alertas[0]["fecha"])
	assert.Equal(t, "780", alertas[0]["ean"])
	assert.Contains(t, alertas[0], "dias_restantes")
	assert.Contains(t, alertas[0], "mensaje_estado")
	assert.NotContains(t, alertas[0], "nombre_producto")

	w = a.do(http.MethodGet, "/api/alerts/reporte.pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

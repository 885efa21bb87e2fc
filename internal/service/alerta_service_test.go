package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"jumboscan/internal/dto"
	"jumboscan/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emailSistema = "sistema@auto.local"

func TestEstadoAlerta(t *testing.T) {
	hoy := time.Date(2025, 10, 7, 18, 45, 0, 0, time.UTC)

	cases := []struct {
		fecha   string
		dias    int
		estado  string
		mensaje string
	}{
		{"2025-10-07", 0, dto.EstadoAlerta, "¡Vence HOY!"},
		{"2025-10-06", -1, dto.EstadoVencido, "Venció hace 1 días"},
		{"2025-10-22", 15, dto.EstadoAlerta, "Vence en 15 días"},
		{"2025-10-23", 16, dto.EstadoOK, "Faltan 16 días"},
		{"07/10/2025", 999, dto.EstadoOK, "Fecha inválida"},
		{"", 999, dto.EstadoOK, "Fecha inválida"},
	}
	for _, c := range cases {
		dias, estado, mensaje := EstadoAlerta(c.fecha, hoy, 15)
		assert.Equal(t, c.dias, dias, c.fecha)
		assert.Equal(t, c.estado, estado, c.fecha)
		assert.Equal(t, c.mensaje, mensaje, c.fecha)
	}
}

func TestEstadoAlerta_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// Chile moves clocks forward in early September
	hoy := time.Date(2025, 9, 1, 23, 0, 0, 0, loc)
	dias, _, _ := EstadoAlerta("2025-09-30", hoy, 15)
	assert.Equal(t, 29, dias)
}

func newAlertaSvc(repo *stubVencimientoRepo, hoy time.Time) *alertaService {
	svc := NewAlertaService(repo, 15, time.UTC, emailSistema).(*alertaService)
	svc.reloj = func() time.Time { return hoy }
	return svc
}

func TestRegistrar_DefaultsAndUpsert(t *testing.T) {
	repo := &stubVencimientoRepo{}
	svc := newAlertaSvc(repo, time.Date(2025, 10, 7, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	creado, resp, err := svc.Registrar(ctx, dto.CrearAlertaRequest{Fecha: "2025-10-08"}, "ana@tienda.cl")
	require.NoError(t, err)
	assert.True(t, creado)
	assert.Equal(t, model.EANSinCodigo, resp.EAN)
	assert.Equal(t, "Producto Manual", resp.NombreProducto)
	assert.Equal(t, 1, resp.DiasRestantes)
	assert.Equal(t, dto.EstadoAlerta, resp.Estado)

	creado, _, err = svc.Registrar(ctx, dto.CrearAlertaRequest{EAN: "780", Nombre: "LECHE", Fecha: "2025-11-01"}, "ana@tienda.cl")
	require.NoError(t, err)
	assert.True(t, creado)

	creado, resp, err = svc.Registrar(ctx, dto.CrearAlertaRequest{EAN: "780", Nombre: "LECHE", Fecha: "2025-10-01"}, "ana@tienda.cl")
	require.NoError(t, err)
	assert.False(t, creado)
	assert.Equal(t, dto.EstadoVencido, resp.Estado)
	assert.Len(t, repo.vs, 2)
}

func TestRegistrar_LeavesSystemAlertAlone(t *testing.T) {
	repo := &stubVencimientoRepo{vs: []model.Vencimiento{
		{ID: 1, EAN: "780", NombreProducto: "YOGURT", FechaVencimiento: "2025-10-06", UsuarioEmail: emailSistema},
	}}
	svc := newAlertaSvc(repo, time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC))

	creado, _, err := svc.Registrar(context.Background(), dto.CrearAlertaRequest{EAN: "780", Fecha: "2025-10-03"}, "ana@tienda.cl")
	require.NoError(t, err)
	assert.True(t, creado)
	require.Len(t, repo.vs, 2)
	assert.Equal(t, emailSistema, repo.vs[0].UsuarioEmail)
	assert.Equal(t, "2025-10-06", repo.vs[0].FechaVencimiento)
}

func TestListarAndPendientes(t *testing.T) {
	repo := &stubVencimientoRepo{vs: []model.Vencimiento{
		{ID: 1, EAN: "1", FechaVencimiento: "2025-10-01"},
		{ID: 2, EAN: "2", FechaVencimiento: "2025-10-10"},
		{ID: 3, EAN: "3", FechaVencimiento: "2026-01-01"},
		{ID: 4, EAN: "4", FechaVencimiento: "mañana"},
	}}
	svc := newAlertaSvc(repo, time.Date(2025, 10, 7, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	todas, err := svc.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, todas, 4)
	assert.Equal(t, dto.EstadoVencido, todas[0].Estado)
	assert.Equal(t, 999, todas[3].DiasRestantes)

	pend, err := svc.Pendientes(ctx)
	require.NoError(t, err)
	require.Len(t, pend, 2)
	assert.Equal(t, "1", pend[0].EAN)
	assert.Equal(t, "2", pend[1].EAN)

	pdf, err := svc.ReportePDF(ctx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

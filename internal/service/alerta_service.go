package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jumboscan/internal/dto"
	"jumboscan/internal/infra"
	"jumboscan/internal/model"
	"jumboscan/internal/repository"
)

const (
	nombreManual = "Producto Manual"
	diasInvalida = 999
)

type AlertaService interface {
	// Listar returns every alert annotated with its status as of today.
	Listar(ctx context.Context) ([]dto.AlertaResponse, error)
	// Registrar upserts a manual alert by EAN; creado reports an insert.
	Registrar(ctx context.Context, req dto.CrearAlertaRequest, email string) (creado bool, resp *dto.AlertaResponse, err error)
	// Pendientes returns the alerts already expired or inside the warning window.
	Pendientes(ctx context.Context) ([]dto.AlertaResponse, error)
	ReportePDF(ctx context.Context) ([]byte, error)
}

type alertaService struct {
	repo         repository.VencimientoRepository
	umbral       int
	zona         *time.Location
	emailSistema string // owner of import-generated alerts
	reloj        func() time.Time
}

func NewAlertaService(repo repository.VencimientoRepository, umbral int, zona *time.Location, emailSistema string) AlertaService {
	if umbral <= 0 {
		umbral = 15
	}
	if zona == nil {
		zona = time.Local
	}
	return &alertaService{repo: repo, umbral: umbral, zona: zona, emailSistema: emailSistema, reloj: time.Now}
}

// EstadoAlerta classifies an expiration date against hoy. Dates that do not
// parse as YYYY-MM-DD get diasInvalida and the ok status.
func EstadoAlerta(fecha string, hoy time.Time, umbral int) (dias int, estado, mensaje string) {
	f, err := time.Parse(time.DateOnly, strings.TrimSpace(fecha))
	if err != nil {
		return diasInvalida, dto.EstadoOK, "Fecha inválida"
	}
	h := time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, time.UTC)
	dias = int(f.Sub(h).Hours() / 24)

	switch {
	case dias < 0:
		return dias, dto.EstadoVencido, fmt.Sprintf("Venció hace %d días", -dias)
	case dias == 0:
		return dias, dto.EstadoAlerta, "¡Vence HOY!"
	case dias <= umbral:
		return dias, dto.EstadoAlerta, fmt.Sprintf("Vence en %d días", dias)
	default:
		return dias, dto.EstadoOK, fmt.Sprintf("Faltan %d días", dias)
	}
}

func (s *alertaService) hoy() time.Time { return s.reloj().In(s.zona) }

func (s *alertaService) Listar(ctx context.Context) ([]dto.AlertaResponse, error) {
	vs, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	hoy := s.hoy()
	out := make([]dto.AlertaResponse, 0, len(vs))
	for i := range vs {
		out = append(out, s.toResponse(&vs[i], hoy))
	}
	return out, nil
}

func (s *alertaService) Registrar(ctx context.Context, req dto.CrearAlertaRequest, email string) (bool, *dto.AlertaResponse, error) {
	ean := strings.TrimSpace(req.EAN)
	if ean == "" {
		ean = model.EANSinCodigo
	}
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		nombre = nombreManual
	}
	v := &model.Vencimiento{
		EAN:              ean,
		NombreProducto:   nombre,
		FechaVencimiento: strings.TrimSpace(req.Fecha),
		UsuarioEmail:     email,
	}
	creado, err := s.repo.UpsertPorEAN(ctx, v, s.emailSistema)
	if err != nil {
		return false, nil, err
	}
	resp := s.toResponse(v, s.hoy())
	return creado, &resp, nil
}

func (s *alertaService) Pendientes(ctx context.Context) ([]dto.AlertaResponse, error) {
	todas, err := s.Listar(ctx)
	if err != nil {
		return nil, err
	}
	var out []dto.AlertaResponse
	for _, a := range todas {
		if a.Estado != dto.EstadoOK {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *alertaService) ReportePDF(ctx context.Context) ([]byte, error) {
	alertas, err := s.Listar(ctx)
	if err != nil {
		return nil, err
	}
	return infra.GenerarReporteAlertas(alertas, s.hoy())
}

func (s *alertaService) toResponse(v *model.Vencimiento, hoy time.Time) dto.AlertaResponse {
	dias, estado, mensaje := EstadoAlerta(v.FechaVencimiento, hoy, s.umbral)
	return dto.AlertaResponse{
		ID:               v.ID,
		EAN:              v.EAN,
		NombreProducto:   v.NombreProducto,
		FechaVencimiento: v.FechaVencimiento,
		UsuarioEmail:     v.UsuarioEmail,
		CreadoEn:         v.CreadoEn,
		DiasRestantes:    dias,
		Estado:           estado,
		MensajeEstado:    mensaje,
	}
}

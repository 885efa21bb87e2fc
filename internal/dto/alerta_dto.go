package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearAlertaRequest struct {
	EAN    string `json:"ean"    validate:"max=64"`
	Nombre string `json:"nombre" validate:"max=200"`
	Fecha  string `json:"fecha"  validate:"required,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

const (
	EstadoVencido = "vencido"
	EstadoAlerta  = "alerta"
	EstadoOK      = "ok"
)

type AlertaResponse struct {
	ID               uint      `json:"id"`
	EAN              string    `json:"ean"`
	NombreProducto   string    `json:"nombre"`
	FechaVencimiento string    `json:"fecha"`
	UsuarioEmail     string    `json:"usuario"`
	CreadoEn         time.Time `json:"creado_en"`
	DiasRestantes    int       `json:"dias_restantes"`
	Estado           string    `json:"estado"`
	MensajeEstado    string    `json:"mensaje_estado"`
}

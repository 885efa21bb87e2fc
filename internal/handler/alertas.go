package handler

import (
	"net/http"
	"time"

	"jumboscan/internal/dto"
	"jumboscan/internal/middleware"
	"jumboscan/internal/service"

	"github.com/gin-gonic/gin"
)

var mensajesAlerta = map[string]string{
	"Fecha.required": "Falta la fecha de vencimiento",
	"Fecha.datetime": "Formato de fecha inválido, use AAAA-MM-DD",
}

type AlertasHandler struct{ svc service.AlertaService }

func NewAlertasHandler(svc service.AlertaService) *AlertasHandler {
	return &AlertasHandler{svc: svc}
}

func (h *AlertasHandler) Listar(c *gin.Context) {
	alertas, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, alertas)
}

// Crear upserts a manual alert: 201 when inserted, 200 when an existing EAN was updated.
func (h *AlertasHandler) Crear(c *gin.Context) {
	var req dto.CrearAlertaRequest
	if !bindAndValidate(c, &req, mensajesAlerta) {
		return
	}
	claims := middleware.GetClaims(c)
	creado, resp, err := h.svc.Registrar(c.Request.Context(), req, claims.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	status := http.StatusOK
	if creado {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *AlertasHandler) ReportePDF(c *gin.Context) {
	pdf, err := h.svc.ReportePDF(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	nombre := "vencimientos_" + time.Now().Format("20060102") + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

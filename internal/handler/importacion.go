package handler

import (
	"context"
	"errors"
	"net/http"

	"jumboscan/internal/apierror"
	"jumboscan/internal/dto"
	"jumboscan/internal/importer"

	"github.com/gin-gonic/gin"
)

// Importador is the part of *importer.Importer the admin endpoints use.
type Importador interface {
	Run(ctx context.Context, ruta string) (*importer.Reporte, error)
	Ultimo() *importer.Reporte
}

// Encolador hands an import to the background worker.
type Encolador interface {
	EnqueueImportacion(ctx context.Context, ruta string) error
}

type ImportacionHandler struct {
	imp  Importador
	cola Encolador // nil runs imports inside the request
	ruta string
}

func NewImportacionHandler(imp Importador, cola Encolador, ruta string) *ImportacionHandler {
	return &ImportacionHandler{imp: imp, cola: cola, ruta: ruta}
}

// Disparar queues a re-import (202) or, without a queue, runs it and returns the report.
func (h *ImportacionHandler) Disparar(c *gin.Context) {
	if h.cola != nil {
		if err := h.cola.EnqueueImportacion(c.Request.Context(), h.ruta); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusAccepted, dto.MensajeResponse{Mensaje: "Importación encolada"})
		return
	}

	rep, err := h.imp.Run(c.Request.Context(), h.ruta)
	switch {
	case errors.Is(err, importer.ErrImportEnCurso):
		c.JSON(http.StatusConflict, apierror.New("Ya hay una importación en curso"))
	case errors.Is(err, importer.ErrArchivoIlegible):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No se pudo leer la planilla", "reporte": rep})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "La importación falló", "reporte": rep})
	default:
		c.JSON(http.StatusOK, rep)
	}
}

func (h *ImportacionHandler) Ultimo(c *gin.Context) {
	rep := h.imp.Ultimo()
	if rep == nil {
		c.JSON(http.StatusNotFound, apierror.New("Sin importaciones registradas"))
		return
	}
	c.JSON(http.StatusOK, rep)
}

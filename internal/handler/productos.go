package handler

import (
	"errors"
	"net/http"

	"jumboscan/internal/apierror"
	"jumboscan/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// PorCodigo looks a product up by scanned EAN or SAP code.
func (h *ProductosHandler) PorCodigo(c *gin.Context) {
	p, err := h.svc.ObtenerPorCodigo(c.Request.Context(), c.Param("codigo"))
	if errors.Is(err, service.ErrProductoNoEncontrado) {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductosHandler) Buscar(c *gin.Context) {
	ps, err := h.svc.Buscar(c.Request.Context(), c.Param("query"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

package handler

import (
	"errors"
	"net/http"

	"jumboscan/internal/apierror"
	"jumboscan/internal/dto"
	"jumboscan/internal/middleware"
	"jumboscan/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Register creates an account. 409 when the e-mail is taken.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req, nil) {
		return
	}
	err := h.svc.Registrar(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrEmailExiste):
		c.JSON(http.StatusConflict, apierror.New("Email existe"))
	case err != nil:
		_ = c.Error(err)
	default:
		c.JSON(http.StatusCreated, dto.MensajeResponse{Mensaje: "Creado"})
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req, nil) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Credenciales inválidas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the account behind the token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Perfil(c.Request.Context(), claims.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Usuario no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

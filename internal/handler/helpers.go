package handler

import (
	"errors"
	"net/http"

	"jumboscan/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const msgFaltanDatos = "Faltan datos"

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// On failure it writes a 400 and returns false; the caller must return at once.
// mensajes maps "Field.tag" to the message the client shows; anything else
// gets msgFaltanDatos.
func bindAndValidate(c *gin.Context, req interface{}, mensajes map[string]string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(msgFaltanDatos))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(msgFaltanDatos))
			return false
		}
		fields := make(map[string]string, len(ves))
		msg := ""
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
			if m, ok := mensajes[fe.Field()+"."+fe.Tag()]; ok && msg == "" {
				msg = m
			}
		}
		ve := apierror.NewValidation(fields)
		if msg != "" {
			ve.Error = msg
		}
		c.JSON(http.StatusBadRequest, ve)
		return false
	}
	return true
}

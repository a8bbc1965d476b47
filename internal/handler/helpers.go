package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Bry504/red-de-agencias/internal/apierror"
	"github.com/Bry504/red-de-agencias/internal/payload"
	"github.com/Bry504/red-de-agencias/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseDoc reads the raw body as a tolerant webhook document. Workflow
// payloads vary too much for struct binding.
func parseDoc(c *gin.Context) (payload.Doc, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el cuerpo"))
		return nil, false
	}
	doc, err := payload.Parse(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Payload inválido"))
		return nil, false
	}
	return doc, true
}

// responderError maps service errors to HTTP codes. Unknown errors go to the
// error-handler middleware, which logs and answers 500.
func responderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFaltanCampos):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrAccesoRevocado):
		c.JSON(http.StatusBadRequest, apierror.New("Acceso revocado."))
	case errors.Is(err, service.ErrCelularDuplicado):
		c.JSON(http.StatusConflict, apierror.New("El celular ya existe en la Base de Datos."))
	case errors.Is(err, service.ErrNombreDuplicado):
		c.JSON(http.StatusConflict, apierror.New("Ya existe un contacto registrado con ese nombre. Por favor revisa antes de crear uno nuevo."))
	default:
		_ = c.Error(err)
	}
}

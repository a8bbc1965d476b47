package handler

import (
	"net/http"

	"github.com/Bry504/red-de-agencias/internal/dto"
	"github.com/Bry504/red-de-agencias/internal/service"

	"github.com/gin-gonic/gin"
)

type FormularioHandler struct{ svc service.IntakeService }

func NewFormularioHandler(svc service.IntakeService) *FormularioHandler {
	return &FormularioHandler{svc: svc}
}

// Campo registra un prospecto captado en campo por un asesor.
// Duplicado de celular responde 409; asesor sin acceso al CRM responde 400.
func (h *FormularioHandler) Campo(c *gin.Context) {
	var req dto.CampoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarCampo(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EntornoPersonal registra un referido del entorno del asesor. El duplicado
// se valida por nombre completo porque el celular es opcional.
func (h *FormularioHandler) EntornoPersonal(c *gin.Context) {
	var req dto.EntornoPersonalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarEntornoPersonal(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

package handler

import (
	"net/http"

	"github.com/Bry504/red-de-agencias/internal/dto"
	"github.com/Bry504/red-de-agencias/internal/payload"
	"github.com/Bry504/red-de-agencias/internal/service"

	"github.com/gin-gonic/gin"
)

// WebhookHandler atiende los eventos que HighLevel empuja por canal. Los dos
// canales comparten la lógica; solo cambia la etiqueta de canal y el token
// que valida el middleware.
type WebhookHandler struct {
	contactos     service.ContactoService
	oportunidades service.OportunidadService
	notas         service.NotaService
	citas         service.CitaService
}

func NewWebhookHandler(
	contactos service.ContactoService,
	oportunidades service.OportunidadService,
	notas service.NotaService,
	citas service.CitaService,
) *WebhookHandler {
	return &WebhookHandler{
		contactos:     contactos,
		oportunidades: oportunidades,
		notas:         notas,
		citas:         citas,
	}
}

func ack(c *gin.Context, status int, res *service.Resultado) {
	c.JSON(status, dto.WebhookAck{OK: true, Procesado: res.Procesado, Motivo: res.Motivo})
}

func (h *WebhookHandler) ContactCreated(canal string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := parseDoc(c)
		if !ok {
			return
		}
		contacto, err := h.contactos.CrearDesdeWebhook(c.Request.Context(), doc, canal)
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true, "contacto_id": contacto.ID})
	}
}

func (h *WebhookHandler) ContactUpdated(canal string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := parseDoc(c)
		if !ok {
			return
		}
		res, err := h.contactos.ActualizarDesdeWebhook(c.Request.Context(), doc, canal)
		if err != nil {
			responderError(c, err)
			return
		}
		ack(c, http.StatusOK, res)
	}
}

func (h *WebhookHandler) OpportunityCreated() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := parseDoc(c)
		if !ok {
			return
		}
		op, err := h.oportunidades.Crear(c.Request.Context(), doc)
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true, "oportunidad_id": op.ID})
	}
}

func (h *WebhookHandler) OpportunityUpdated() gin.HandlerFunc {
	return h.operacion(func(c *gin.Context, doc payload.Doc) (*service.Resultado, error) {
		return h.oportunidades.Actualizar(c.Request.Context(), doc)
	})
}

func (h *WebhookHandler) StageChanged() gin.HandlerFunc {
	return h.operacion(func(c *gin.Context, doc payload.Doc) (*service.Resultado, error) {
		return h.oportunidades.RegistrarCambioEtapa(c.Request.Context(), doc)
	})
}

func (h *WebhookHandler) OwnerChanged() gin.HandlerFunc {
	return h.operacion(func(c *gin.Context, doc payload.Doc) (*service.Resultado, error) {
		return h.oportunidades.RegistrarReasignacion(c.Request.Context(), doc)
	})
}

func (h *WebhookHandler) OpportunityWon() gin.HandlerFunc {
	return h.operacion(func(c *gin.Context, doc payload.Doc) (*service.Resultado, error) {
		return h.oportunidades.RegistrarGanada(c.Request.Context(), doc)
	})
}

func (h *WebhookHandler) OpportunityLost() gin.HandlerFunc {
	return h.operacion(func(c *gin.Context, doc payload.Doc) (*service.Resultado, error) {
		return h.oportunidades.RegistrarPerdida(c.Request.Context(), doc)
	})
}

func (h *WebhookHandler) OpportunityAbandoned() gin.HandlerFunc {
	return h.operacion(func(c *gin.Context, doc payload.Doc) (*service.Resultado, error) {
		return h.oportunidades.RegistrarAbandonada(c.Request.Context(), doc)
	})
}

func (h *WebhookHandler) NoteCreated() gin.HandlerFunc {
	return h.operacion(func(c *gin.Context, doc payload.Doc) (*service.Resultado, error) {
		return h.notas.Crear(c.Request.Context(), doc)
	})
}

func (h *WebhookHandler) Appointment() gin.HandlerFunc {
	return h.operacion(func(c *gin.Context, doc payload.Doc) (*service.Resultado, error) {
		return h.citas.Crear(c.Request.Context(), doc)
	})
}

// operacion factoriza el patrón común: parsear, ejecutar, responder 200 con
// el resultado (procesado u omitido).
func (h *WebhookHandler) operacion(fn func(*gin.Context, payload.Doc) (*service.Resultado, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := parseDoc(c)
		if !ok {
			return
		}
		res, err := fn(c, doc)
		if err != nil {
			responderError(c, err)
			return
		}
		ack(c, http.StatusOK, res)
	}
}

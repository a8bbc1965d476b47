package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CampoRequest is the body of POST /api/tradicional/campo: a lead captured
// in the field by an advisor. UsuarioID is the advisor's internal id.
type CampoRequest struct {
	UsuarioID          string  `json:"usuario_id" validate:"required,uuid"`
	Nombre             string  `json:"nombre"     validate:"required"`
	Apellido           string  `json:"apellido"   validate:"required"`
	Celular            string  `json:"celular"    validate:"required"`
	DocumentoIdentidad *string `json:"documento_identidad"`
	Email              *string `json:"email" validate:"omitempty,email"`
	LugarProspeccion   *string `json:"lugar_prospeccion"`
	ProyectoInteres    *string `json:"proyecto_interes"`
	Presupuesto        *string `json:"presupuesto"`
	ModalidadPago      *string `json:"modalidad_pago"`
	Comentarios        *string `json:"comentarios"`
}

// EntornoPersonalRequest is the body of POST /api/tradicional/entorno-personal:
// a referral from the advisor's personal network. The phone is optional here,
// so the duplicate guard keys on the full name instead.
type EntornoPersonalRequest struct {
	UsuarioID      string   `json:"usuario_id"      validate:"required,uuid"`
	NombreCompleto string   `json:"nombre_completo" validate:"required"`
	Celular        *string  `json:"celular"`
	Email          *string  `json:"email" validate:"omitempty,email"`
	Latitud        *float64 `json:"latitud"`
	Longitud       *float64 `json:"longitud"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// IntakeResponse is returned by both form endpoints. Advertencia carries the
// partial-success note when the local write landed but a CRM call failed.
type IntakeResponse struct {
	OK          bool    `json:"ok"`
	ContactoID  string  `json:"contacto_id"`
	HlContactID *string `json:"hl_contact_id,omitempty"`
	Advertencia *string `json:"advertencia,omitempty"`
}

// WebhookAck is the uniform webhook response. Procesado is false on a soft
// skip, with Motivo explaining which reference did not resolve.
type WebhookAck struct {
	OK        bool   `json:"ok"`
	Procesado bool   `json:"procesado"`
	Motivo    string `json:"motivo,omitempty"`
}

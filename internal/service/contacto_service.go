package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Bry504/red-de-agencias/internal/model"
	"github.com/Bry504/red-de-agencias/internal/payload"
	"github.com/Bry504/red-de-agencias/internal/repository"

	"github.com/rs/zerolog/log"
)

type ContactoService interface {
	// CrearDesdeWebhook inserts a contact from a contact-created event.
	CrearDesdeWebhook(ctx context.Context, doc payload.Doc, canal string) (*model.Contacto, error)

	// ActualizarDesdeWebhook applies a partial update keyed by hl_contact_id.
	// A field absent from the payload is left untouched; a field that arrived
	// explicitly empty is cleared. canal empty means the channel tag is not
	// rewritten.
	ActualizarDesdeWebhook(ctx context.Context, doc payload.Doc, canal string) (*Resultado, error)
}

type contactoService struct {
	repo repository.ContactoRepository
}

func NewContactoService(repo repository.ContactoRepository) ContactoService {
	return &contactoService{repo: repo}
}

func (s *contactoService) CrearDesdeWebhook(ctx context.Context, doc payload.Doc, canal string) (*model.Contacto, error) {
	hlContactID := doc.String("contact.id", "contact.contact_id", "id", "contact_id")

	var celular *string
	if raw := doc.String("contact.phone", "phone"); raw != nil {
		celular = payload.PhoneE164(*raw)
	}

	if celular == nil && hlContactID == nil {
		return nil, fmt.Errorf("%w: se requiere celular o hl_contact_id", ErrFaltanCampos)
	}

	first := doc.String("contact.firstName", "firstName")
	last := doc.String("contact.lastName", "lastName")
	var nombre *string
	if combined := strings.TrimSpace(deref(first) + " " + deref(last)); combined != "" {
		nombre = &combined
	}

	c := &model.Contacto{
		NombreCompleto:       nombre,
		Celular:              celular,
		Email:                doc.String("contact.email", "email"),
		HlContactID:          hlContactID,
		DocumentoDeIdentidad: doc.CustomFieldByName("documento"),
		Origen:               doc.CustomFieldByName("origen"),
		EstadoCivil:          doc.CustomFieldByName("civil"),
		DistritoDeResidencia: doc.CustomFieldByName("distrito"),
		Profesion:            doc.CustomFieldByName("profesion"),
		Latitud:              floatDeCampo(doc, "latitud"),
		Longitud:             floatDeCampo(doc, "longitud"),
		Canal:                canal,
	}
	if nac := doc.CustomFieldByName("nac"); nac != nil {
		c.FechaDeNacimiento = payload.ParseDate(*nac)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Info().
		Str("contacto_id", c.ID.String()).
		Str("canal", canal).
		Msg("contacto creado desde webhook")
	return c, nil
}

func (s *contactoService) ActualizarDesdeWebhook(ctx context.Context, doc payload.Doc, canal string) (*Resultado, error) {
	hlContactID := doc.String("customData.hl_contact_id", "hl_contact_id", "contact.id")
	if hlContactID == nil {
		return nil, fmt.Errorf("%w: se requiere hl_contact_id", ErrFaltanCampos)
	}

	upd := payload.NewUpdate().
		SetPhone("celular", doc, "customData.celular", "celular", "contact.phone").
		SetString("documento_de_identidad", doc, "customData.documento_de_identidad", "documento_de_identidad").
		SetString("estado_civil", doc, "customData.estado_civil", "estado_civil").
		SetString("distrito_de_residencia", doc, "customData.distrito_de_residencia", "distrito_de_residencia").
		SetString("profesion", doc, "customData.profesion", "profesion").
		SetString("email", doc, "customData.email", "email", "contact.email").
		SetString("origen", doc, "customData.origen", "origen").
		SetDate("fecha_de_nacimiento", doc, "customData.fecha_de_nacimiento", "fecha_de_nacimiento").
		SetString("nombre_anuncio", doc, "customData.nombre_anuncio", "nombre_anuncio").
		SetString("conjunto_de_anuncios", doc, "customData.conjunto_de_anuncios", "conjunto_de_anuncios").
		SetString("nombre_campaña", doc, "customData.nombre_campaña", "nombre_campaña").
		SetString("fuente_digital", doc, "customData.fuente_digital", "fuente_digital").
		SetString("proyecto_formulario", doc, "customData.proyecto_formulario", "proyecto_formulario").
		SetString("id_registro_cliente", doc, "customData.id_registro_cliente", "id_registro_cliente")

	// nombre_completo: texto directo o composición firstName + lastName
	if nombre, present := doc.Presence("customData.nombre_completo", "nombre_completo"); present {
		if nombre != nil {
			upd.Set("nombre_completo", *nombre)
		} else {
			upd.Set("nombre_completo", nil)
		}
	} else if combined := strings.TrimSpace(deref(doc.String("contact.firstName")) + " " + deref(doc.String("contact.lastName"))); combined != "" {
		upd.Set("nombre_completo", combined)
	}

	if canal != "" {
		upd.Set("canal", canal)
	}

	if upd.Empty() {
		return omitido("sin campos para actualizar"), nil
	}

	rows, err := s.repo.UpdateByHlContactID(ctx, *hlContactID, upd.Columns())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		log.Warn().Str("hl_contact_id", *hlContactID).Msg("contacto no encontrado para actualizar")
		return omitido("contacto no encontrado"), nil
	}
	return procesado(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatDeCampo(doc payload.Doc, nombre string) *float64 {
	v := doc.CustomFieldByName(nombre)
	if v == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return nil
	}
	return &f
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Bry504/red-de-agencias/internal/model"
	"github.com/Bry504/red-de-agencias/internal/payload"
	"github.com/Bry504/red-de-agencias/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CitaService interface {
	Crear(ctx context.Context, doc payload.Doc) (*Resultado, error)
}

type citaService struct {
	citas         repository.CitaRepository
	contactos     repository.ContactoRepository
	usuarios      repository.UsuarioRepository
	oportunidades repository.OportunidadRepository
}

func NewCitaService(
	citas repository.CitaRepository,
	contactos repository.ContactoRepository,
	usuarios repository.UsuarioRepository,
	oportunidades repository.OportunidadRepository,
) CitaService {
	return &citaService{citas: citas, contactos: contactos, usuarios: usuarios, oportunidades: oportunidades}
}

// clasificarTipo buckets the free-text appointment kind into the two
// canonical values. Unmatched text is kept as it came.
func clasificarTipo(raw *string) *string {
	if raw == nil {
		return nil
	}
	t := strings.ToLower(*raw)

	esPresentacion := strings.Contains(t, "pres") ||
		strings.Contains(t, "vir") ||
		strings.Contains(t, "ofi") ||
		strings.Contains(t, "zo") ||
		strings.Contains(t, "mee")
	esVisita := strings.Contains(t, "vis") || strings.Contains(t, "proy")

	var tipo string
	switch {
	case esPresentacion:
		tipo = model.CitaTipoPresentacion
	case esVisita:
		tipo = model.CitaTipoVisitaProyecto
	default:
		return raw
	}
	return &tipo
}

// Crear persists an appointment event. The opportunity is resolved through
// the contact; either reference may be missing and the row is still written
// with null FKs.
func (s *citaService) Crear(ctx context.Context, doc payload.Doc) (*Resultado, error) {
	c := &model.CitaProgramada{
		GhlAppointmentID: doc.String("customData.ghl_appointment_id", "ghl_appointment_id"),
		Tipo:             clasificarTipo(doc.String("customData.tipo", "tipo")),
		FechaHoraInicio:  doc.DateTime("customData.fecha_hora_inicio", "fecha_hora_inicio"),
	}
	if fecha := doc.String("customData.date_inicio_reunion", "date_inicio_reunion"); fecha != nil {
		c.DateInicioReunion = payload.ParseDate(*fecha)
	}

	if hlContactID := doc.String("customData.contacto", "contacto"); hlContactID != nil {
		contacto, err := s.contactos.FindByHlContactID(ctx, *hlContactID)
		switch {
		case err == nil:
			if op, opErr := s.oportunidades.FindLatestByContactoID(ctx, contacto.ID); opErr == nil {
				c.OportunidadID = &op.ID
			} else if !errors.Is(opErr, gorm.ErrRecordNotFound) {
				return nil, opErr
			} else {
				log.Warn().Str("contacto_id", contacto.ID.String()).Msg("cita sin oportunidad asociada")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Warn().Str("hl_contact_id", *hlContactID).Msg("contacto de cita no encontrado")
		default:
			return nil, err
		}
	}

	if ghl := doc.String("customData.propietario", "propietario"); ghl != nil {
		if u, err := s.usuarios.FindByGhlID(ctx, *ghl); err == nil {
			c.PropietarioID = &u.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		} else {
			log.Warn().Str("ghl_id", *ghl).Msg("propietario de cita no encontrado")
		}
	}

	if err := s.citas.Create(ctx, c); err != nil {
		return nil, err
	}
	return procesado(), nil
}

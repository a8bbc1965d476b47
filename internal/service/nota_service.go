package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Bry504/red-de-agencias/internal/model"
	"github.com/Bry504/red-de-agencias/internal/payload"
	"github.com/Bry504/red-de-agencias/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type NotaService interface {
	Crear(ctx context.Context, doc payload.Doc) (*Resultado, error)
}

type notaService struct {
	notas         repository.NotaRepository
	contactos     repository.ContactoRepository
	usuarios      repository.UsuarioRepository
	oportunidades repository.OportunidadRepository
}

func NewNotaService(
	notas repository.NotaRepository,
	contactos repository.ContactoRepository,
	usuarios repository.UsuarioRepository,
	oportunidades repository.OportunidadRepository,
) NotaService {
	return &notaService{notas: notas, contactos: contactos, usuarios: usuarios, oportunidades: oportunidades}
}

// Crear persists a note-created event. The pipeline is read from the stored
// opportunity when the payload carries its id; the webhook text is only a
// fallback.
func (s *notaService) Crear(ctx context.Context, doc payload.Doc) (*Resultado, error) {
	contenido := doc.String("customData.nota", "nota")
	if contenido == nil {
		return nil, fmt.Errorf("%w: se requiere nota", ErrFaltanCampos)
	}

	n := &model.Nota{Nota: *contenido}

	if ghl := doc.String("customData.propietario", "propietario"); ghl != nil {
		if u, err := s.usuarios.FindByGhlID(ctx, *ghl); err == nil {
			n.PropietarioID = &u.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		} else {
			log.Warn().Str("ghl_id", *ghl).Msg("propietario de nota no encontrado")
		}
	}

	if hlContactID := doc.String("customData.contacto", "contacto", "contact.id"); hlContactID != nil {
		if c, err := s.contactos.FindByHlContactID(ctx, *hlContactID); err == nil {
			n.ContactoID = &c.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		} else {
			log.Warn().Str("hl_contact_id", *hlContactID).Msg("contacto de nota no encontrado")
		}
	}

	pipelineTexto := doc.String("customData.pipeline", "pipeline", "opportunity.pipelineId")
	if hlOppID := doc.String("customData.hl_opportunity_id", "hl_opportunity_id", "opportunity.id", "opportunity_id"); hlOppID != nil {
		if op, err := s.oportunidades.FindByHlOpportunityID(ctx, *hlOppID); err == nil && op.Pipeline != nil {
			n.Pipeline = op.Pipeline
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if n.Pipeline == nil {
		n.Pipeline = pipelineTexto
	}

	if err := s.notas.Create(ctx, n); err != nil {
		return nil, err
	}
	return procesado(), nil
}

package service

import (
	"context"
	"errors"

	"github.com/Bry504/red-de-agencias/internal/model"
	"github.com/Bry504/red-de-agencias/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EtapaService owns the stage-history append rule shared by the stage-changed
// endpoint and the opportunity updates: a row is appended only when the
// destination differs from the last recorded one, and the origin is always
// the prior destination, never a payload field. The first recorded transition
// of an opportunity has a null origin.
type EtapaService interface {
	RegistrarCambio(ctx context.Context, oportunidadID uuid.UUID, propietarioID *uuid.UUID, etapaDestino string, pipeline *string) (bool, error)
}

type etapaService struct {
	historial repository.HistorialRepository
}

func NewEtapaService(historial repository.HistorialRepository) EtapaService {
	return &etapaService{historial: historial}
}

func (s *etapaService) RegistrarCambio(ctx context.Context, oportunidadID uuid.UUID, propietarioID *uuid.UUID, etapaDestino string, pipeline *string) (bool, error) {
	var etapaOrigen *string
	last, err := s.historial.LastEtapa(ctx, oportunidadID)
	switch {
	case err == nil:
		if last.EtapaDestino == etapaDestino {
			log.Debug().
				Str("oportunidad_id", oportunidadID.String()).
				Str("etapa", etapaDestino).
				Msg("etapa sin cambio, no se registra")
			return false, nil
		}
		etapaOrigen = &last.EtapaDestino
	case errors.Is(err, gorm.ErrRecordNotFound):
		// primera transición registrada, origen null
	default:
		return false, err
	}

	h := &model.HistorialEtapa{
		OportunidadID: oportunidadID,
		PropietarioID: propietarioID,
		EtapaOrigen:   etapaOrigen,
		EtapaDestino:  etapaDestino,
		Pipeline:      pipeline,
	}
	if err := s.historial.CreateEtapa(ctx, h); err != nil {
		return false, err
	}
	return true, nil
}

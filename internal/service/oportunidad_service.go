package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Bry504/red-de-agencias/internal/model"
	"github.com/Bry504/red-de-agencias/internal/payload"
	"github.com/Bry504/red-de-agencias/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Rutas alternativas bajo las que los workflows mandan las claves externas.
var (
	pathsHlOpportunityID = []string{
		"customData.hl_opportunity_id", "hl_opportunity_id",
		"customData.oportunidad", "oportunidad",
		"opportunity.id", "opportunity_id", "opportunityId",
	}
	pathsHlContactID = []string{
		"customData.hl_contact_id", "hl_contact_id", "contact.id", "contact_id",
	}
	pathsPropietarioGhl = []string{
		"customData.propietario", "propietario", "opportunity.assignedUserId",
	}
)

type OportunidadService interface {
	Crear(ctx context.Context, doc payload.Doc) (*model.Oportunidad, error)
	Actualizar(ctx context.Context, doc payload.Doc) (*Resultado, error)
	RegistrarCambioEtapa(ctx context.Context, doc payload.Doc) (*Resultado, error)
	RegistrarReasignacion(ctx context.Context, doc payload.Doc) (*Resultado, error)
	RegistrarGanada(ctx context.Context, doc payload.Doc) (*Resultado, error)
	RegistrarPerdida(ctx context.Context, doc payload.Doc) (*Resultado, error)
	RegistrarAbandonada(ctx context.Context, doc payload.Doc) (*Resultado, error)
}

type oportunidadService struct {
	repo       repository.OportunidadRepository
	contactos  repository.ContactoRepository
	usuarios   repository.UsuarioRepository
	historial  repository.HistorialRepository
	resultados repository.ResultadoRepository
	etapas     EtapaService
}

func NewOportunidadService(
	repo repository.OportunidadRepository,
	contactos repository.ContactoRepository,
	usuarios repository.UsuarioRepository,
	historial repository.HistorialRepository,
	resultados repository.ResultadoRepository,
	etapas EtapaService,
) OportunidadService {
	return &oportunidadService{
		repo:       repo,
		contactos:  contactos,
		usuarios:   usuarios,
		historial:  historial,
		resultados: resultados,
		etapas:     etapas,
	}
}

// resolverPropietario maps a HighLevel user id to the local advisor. An
// unknown id resolves to nil so the row is still written.
func (s *oportunidadService) resolverPropietario(ctx context.Context, ghlID *string) *uuid.UUID {
	if ghlID == nil {
		return nil
	}
	u, err := s.usuarios.FindByGhlID(ctx, *ghlID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("ghl_id", *ghlID).Msg("error buscando propietario")
		} else {
			log.Warn().Str("ghl_id", *ghlID).Msg("propietario no encontrado")
		}
		return nil
	}
	return &u.ID
}

func (s *oportunidadService) resolverContacto(ctx context.Context, hlContactID *string) *uuid.UUID {
	if hlContactID == nil {
		return nil
	}
	c, err := s.contactos.FindByHlContactID(ctx, *hlContactID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("hl_contact_id", *hlContactID).Msg("error buscando contacto")
		} else {
			log.Warn().Str("hl_contact_id", *hlContactID).Msg("contacto no encontrado")
		}
		return nil
	}
	return &c.ID
}

func (s *oportunidadService) Crear(ctx context.Context, doc payload.Doc) (*model.Oportunidad, error) {
	hlOppID := doc.String(pathsHlOpportunityID...)
	if hlOppID == nil {
		return nil, fmt.Errorf("%w: se requiere hl_opportunity_id", ErrFaltanCampos)
	}

	o := &model.Oportunidad{
		HlOpportunityID:       hlOppID,
		ContactoID:            s.resolverContacto(ctx, doc.String(pathsHlContactID...)),
		PropietarioID:         s.resolverPropietario(ctx, doc.String(pathsPropietarioGhl...)),
		Estado:                doc.String("customData.estado", "estado", "opportunity.status"),
		NivelDeInteres:        doc.String("customData.nivel_de_interes", "nivel_de_interes"),
		TipoDeCliente:         doc.String("customData.tipo_de_cliente", "tipo_de_cliente"),
		Producto:              doc.String("customData.producto", "producto"),
		Proyecto:              doc.String("customData.proyecto", "proyecto"),
		ModalidadDePago:       doc.String("customData.modalidad_de_pago", "modalidad_de_pago"),
		Pipeline:              doc.String("customData.pipeline", "pipeline", "opportunity.pipelineId"),
		MotivoDeSeguimiento:   doc.String("customData.motivo_de_seguimiento", "motivo_de_seguimiento"),
		PrincipalesObjeciones: doc.String("customData.principales_objeciones", "principales_objeciones"),
		Arras:                 doc.Decimal("customData.arras", "arras"),
		CuotaInicialPagada:    doc.Decimal("customData.cuota_inicial_pagada", "cuota_inicial_pagada"),
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	log.Info().
		Str("oportunidad_id", o.ID.String()).
		Str("hl_opportunity_id", *hlOppID).
		Msg("oportunidad creada desde webhook")
	return o, nil
}

// Actualizar applies the defensive update: the opportunity is looked up by
// hl_opportunity_id with a per-contact fallback, the mutable columns are
// rewritten, and the three trail tables get a row each only when the value
// actually changed.
func (s *oportunidadService) Actualizar(ctx context.Context, doc payload.Doc) (*Resultado, error) {
	hlOppID := doc.String(pathsHlOpportunityID...)
	hlContactID := doc.String(pathsHlContactID...)
	contactoID := s.resolverContacto(ctx, hlContactID)

	op, err := s.buscarOportunidad(ctx, hlOppID, contactoID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return omitido("oportunidad no encontrada"), nil
	}

	estadoNuevo := doc.String("customData.status", "status", "customData.estado", "estado")
	pipelineNuevo := doc.String("customData.pipeline", "pipeline")
	etapaNueva := doc.String("customData.stage", "stage")

	// El propietario se pisa siempre: sin assignedTo en el payload la
	// oportunidad queda sin asignar.
	var propietarioActual *uuid.UUID
	if ghl, _ := doc.Presence("customData.assignedTo", "assignedTo", "customData.ghl_id", "ghl_id"); ghl != nil {
		propietarioActual = s.resolverPropietario(ctx, ghl)
	}

	cols := map[string]any{
		"estado":         valorONil(estadoNuevo),
		"contacto_id":    valorONilUUID(contactoID),
		"propietario_id": valorONilUUID(propietarioActual),
	}
	if pipelineNuevo != nil {
		// pipeline solo si vino, para no borrarlo por un payload incompleto
		cols["pipeline"] = *pipelineNuevo
	}

	if err := s.repo.UpdateByID(ctx, op.ID, cols); err != nil {
		return nil, err
	}

	if !uuidIgual(op.PropietarioID, propietarioActual) {
		re := &model.Reasignacion{
			OportunidadID:       op.ID,
			PropietarioAnterior: op.PropietarioID,
			PropietarioActual:   propietarioActual,
		}
		if err := s.historial.CreateReasignacion(ctx, re); err != nil {
			log.Error().Err(err).Str("oportunidad_id", op.ID.String()).Msg("error registrando reasignación")
		}
	}

	if pipelineNuevo != nil && (op.Pipeline == nil || *op.Pipeline != *pipelineNuevo) {
		cp := &model.CambioPipeline{
			OportunidadID:   op.ID,
			Estado:          estadoNuevo,
			PipelineOrigen:  op.Pipeline,
			PipelineDestino: *pipelineNuevo,
		}
		if err := s.historial.CreateCambioPipeline(ctx, cp); err != nil {
			log.Error().Err(err).Str("oportunidad_id", op.ID.String()).Msg("error registrando cambio de pipeline")
		}
	}

	if etapaNueva != nil {
		if _, err := s.etapas.RegistrarCambio(ctx, op.ID, propietarioActual, *etapaNueva, pipelineNuevo); err != nil {
			log.Error().Err(err).Str("oportunidad_id", op.ID.String()).Msg("error registrando cambio de etapa")
		}
	}

	return procesado(), nil
}

func (s *oportunidadService) buscarOportunidad(ctx context.Context, hlOppID *string, contactoID *uuid.UUID) (*model.Oportunidad, error) {
	if hlOppID != nil {
		op, err := s.repo.FindByHlOpportunityID(ctx, *hlOppID)
		if err == nil {
			return op, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, nil
	}
	if contactoID != nil {
		op, err := s.repo.FindLatestByContactoID(ctx, *contactoID)
		if err == nil {
			return op, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func (s *oportunidadService) RegistrarCambioEtapa(ctx context.Context, doc payload.Doc) (*Resultado, error) {
	hlOppID := doc.String(pathsHlOpportunityID...)
	if hlOppID == nil {
		return nil, fmt.Errorf("%w: se requiere hl_opportunity_id", ErrFaltanCampos)
	}
	etapaDestino := doc.String("customData.etapa_destino", "etapa_destino", "opportunity.stageName", "customData.stage", "stage")
	if etapaDestino == nil {
		return nil, fmt.Errorf("%w: se requiere etapa_destino", ErrFaltanCampos)
	}

	op, err := s.buscarOportunidad(ctx, hlOppID, nil)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return omitido("oportunidad no encontrada"), nil
	}

	propietarioID := s.resolverPropietario(ctx, doc.String("customData.propietario", "propietario"))
	pipeline := doc.String("customData.pipeline", "pipeline", "opportunity.pipelineId")

	inserted, err := s.etapas.RegistrarCambio(ctx, op.ID, propietarioID, *etapaDestino, pipeline)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return omitido("etapa sin cambio"), nil
	}
	return procesado(), nil
}

func (s *oportunidadService) RegistrarReasignacion(ctx context.Context, doc payload.Doc) (*Resultado, error) {
	hlOppID := doc.String(pathsHlOpportunityID...)
	if hlOppID == nil {
		return nil, fmt.Errorf("%w: se requiere hl_opportunity_id", ErrFaltanCampos)
	}
	propietarioGhl := doc.String("customData.propietario", "propietario")
	if propietarioGhl == nil {
		return nil, fmt.Errorf("%w: se requiere propietario", ErrFaltanCampos)
	}

	op, err := s.buscarOportunidad(ctx, hlOppID, nil)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return omitido("oportunidad no encontrada"), nil
	}

	propietarioActual := s.resolverPropietario(ctx, propietarioGhl)
	if propietarioActual == nil {
		return omitido("propietario no encontrado"), nil
	}
	if op.PropietarioID != nil && *op.PropietarioID == *propietarioActual {
		return omitido("mismo propietario"), nil
	}

	re := &model.Reasignacion{
		OportunidadID:       op.ID,
		PropietarioAnterior: op.PropietarioID,
		PropietarioActual:   propietarioActual,
	}
	if err := s.historial.CreateReasignacion(ctx, re); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateByID(ctx, op.ID, map[string]any{"propietario_id": *propietarioActual}); err != nil {
		return nil, err
	}
	return procesado(), nil
}

func (s *oportunidadService) RegistrarGanada(ctx context.Context, doc payload.Doc) (*Resultado, error) {
	op, res, err := s.resolverCierre(ctx, doc)
	if op == nil {
		return res, err
	}

	g := &model.OpGanada{
		OportunidadID:      op.ID,
		PropietarioID:      s.resolverPropietario(ctx, doc.String("customData.propietario", "propietario")),
		Pipeline:           doc.String("customData.pipeline", "pipeline"),
		Arras:              doc.Decimal("customData.arras", "arras"),
		CuotaInicialPagada: doc.Decimal("customData.cuota_inicial_pagada", "cuota_inicial_pagada"),
	}
	if err := s.resultados.CreateGanada(ctx, g); err != nil {
		return nil, err
	}
	if err := s.marcarEstado(ctx, op.ID, model.EstadoGanada); err != nil {
		return nil, err
	}
	return procesado(), nil
}

func (s *oportunidadService) RegistrarPerdida(ctx context.Context, doc payload.Doc) (*Resultado, error) {
	op, res, err := s.resolverCierre(ctx, doc)
	if op == nil {
		return res, err
	}

	p := &model.OpPerdida{
		OportunidadID:   op.ID,
		PropietarioID:   s.resolverPropietario(ctx, doc.String("customData.propietario", "propietario")),
		MotivoDePerdida: doc.String("customData.motivo_de_perdida", "motivo_de_perdida"),
		Pipeline:        doc.String("customData.pipeline", "pipeline"),
		EtapaDePerdida:  s.ultimaEtapa(ctx, op.ID),
	}
	if err := s.resultados.CreatePerdida(ctx, p); err != nil {
		return nil, err
	}
	if err := s.marcarEstado(ctx, op.ID, model.EstadoPerdida); err != nil {
		return nil, err
	}
	return procesado(), nil
}

func (s *oportunidadService) RegistrarAbandonada(ctx context.Context, doc payload.Doc) (*Resultado, error) {
	op, res, err := s.resolverCierre(ctx, doc)
	if op == nil {
		return res, err
	}

	a := &model.OpAbandonada{
		OportunidadID:   op.ID,
		PropietarioID:   s.resolverPropietario(ctx, doc.String("customData.propietario", "propietario")),
		Pipeline:        doc.String("customData.pipeline", "pipeline"),
		EtapaDeAbandono: s.ultimaEtapa(ctx, op.ID),
	}
	if err := s.resultados.CreateAbandonada(ctx, a); err != nil {
		return nil, err
	}
	if err := s.marcarEstado(ctx, op.ID, model.EstadoAbandonada); err != nil {
		return nil, err
	}
	return procesado(), nil
}

// resolverCierre shares the lookup of the three close events. A nil
// opportunity means the caller must return the accompanying Resultado/error.
func (s *oportunidadService) resolverCierre(ctx context.Context, doc payload.Doc) (*model.Oportunidad, *Resultado, error) {
	hlOppID := doc.String(pathsHlOpportunityID...)
	if hlOppID == nil {
		return nil, nil, fmt.Errorf("%w: se requiere hl_opportunity_id", ErrFaltanCampos)
	}
	op, err := s.buscarOportunidad(ctx, hlOppID, nil)
	if err != nil {
		return nil, nil, err
	}
	if op == nil {
		return nil, omitido("oportunidad no encontrada"), nil
	}
	return op, nil, nil
}

// ultimaEtapa snapshots the stage the opportunity was in when it closed.
func (s *oportunidadService) ultimaEtapa(ctx context.Context, oportunidadID uuid.UUID) *string {
	last, err := s.historial.LastEtapa(ctx, oportunidadID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("oportunidad_id", oportunidadID.String()).Msg("error leyendo última etapa")
		}
		return nil
	}
	return &last.EtapaDestino
}

func (s *oportunidadService) marcarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return s.repo.UpdateByID(ctx, id, map[string]any{"estado": estado})
}

func valorONil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func valorONilUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

func uuidIgual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Bry504/red-de-agencias/internal/dto"
	"github.com/Bry504/red-de-agencias/internal/infra"
	"github.com/Bry504/red-de-agencias/internal/model"
	"github.com/Bry504/red-de-agencias/internal/payload"
	"github.com/Bry504/red-de-agencias/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	origenCampo   = "CAMPO"
	origenEntorno = "Entorno personal"
)

// IntakeConfig carries the CRM identifiers the form intake needs: the initial
// pipeline/stage for new opportunities and the custom-field ids of the
// contact attributes the forms capture.
type IntakeConfig struct {
	PipelineID       string
	StageIDRecibida  string
	CFOrigenID       string
	CFDocIdentidadID string
	CFLatitudID      string
	CFLongitudID     string
}

// IntakeService handles the first-party forms. Unlike the webhooks, these
// endpoints hard-fail: a duplicate is a conflict and an unknown advisor is a
// rejection, because a person is on the other end who can correct the input.
// The local row is written before any CRM call; once it is durable, CRM
// failures degrade to a warning instead of rolling back.
type IntakeService interface {
	RegistrarCampo(ctx context.Context, req dto.CampoRequest) (*dto.IntakeResponse, error)
	RegistrarEntornoPersonal(ctx context.Context, req dto.EntornoPersonalRequest) (*dto.IntakeResponse, error)
}

type intakeService struct {
	contactos repository.ContactoRepository
	usuarios  repository.UsuarioRepository
	crm       CRMGateway
	cfg       IntakeConfig
}

func NewIntakeService(
	contactos repository.ContactoRepository,
	usuarios repository.UsuarioRepository,
	crm CRMGateway,
	cfg IntakeConfig,
) IntakeService {
	return &intakeService{contactos: contactos, usuarios: usuarios, crm: crm, cfg: cfg}
}

// resolverAsesor validates the advisor and returns their HighLevel user id.
func (s *intakeService) resolverAsesor(ctx context.Context, usuarioID string) (*model.Usuario, string, error) {
	id, err := uuid.Parse(usuarioID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: usuario_id inválido", ErrFaltanCampos)
	}
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrAccesoRevocado
		}
		return nil, "", err
	}
	if u.GhlID == nil || *u.GhlID == "" {
		return nil, "", ErrAccesoRevocado
	}
	return u, *u.GhlID, nil
}

func (s *intakeService) RegistrarCampo(ctx context.Context, req dto.CampoRequest) (*dto.IntakeResponse, error) {
	celular := payload.PhoneE164(req.Celular)
	if celular == nil {
		return nil, fmt.Errorf("%w: celular inválido", ErrFaltanCampos)
	}

	// Guardia de duplicados antes de tocar el CRM
	if _, err := s.contactos.FindByCelular(ctx, *celular); err == nil {
		return nil, ErrCelularDuplicado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	usuario, ownerGhlID, err := s.resolverAsesor(ctx, req.UsuarioID)
	if err != nil {
		return nil, err
	}

	nombreCompleto := strings.TrimSpace(req.Nombre + " " + req.Apellido)
	origen := origenCampo
	contacto := &model.Contacto{
		NombreCompleto:       &nombreCompleto,
		Celular:              celular,
		DocumentoDeIdentidad: req.DocumentoIdentidad,
		Email:                req.Email,
		Origen:               &origen,
		Canal:                model.CanalTradicional,
	}
	if err := s.contactos.Create(ctx, contacto); err != nil {
		return nil, err
	}

	log.Info().
		Str("contacto_id", contacto.ID.String()).
		Str("asesor_id", usuario.ID.String()).
		Msg("prospecto de campo registrado")

	customFields := []infra.CustomField{}
	if s.cfg.CFOrigenID != "" {
		customFields = append(customFields, infra.CustomField{ID: s.cfg.CFOrigenID, Value: origenCampo})
	}
	if s.cfg.CFDocIdentidadID != "" && req.DocumentoIdentidad != nil {
		customFields = append(customFields, infra.CustomField{ID: s.cfg.CFDocIdentidadID, Value: *req.DocumentoIdentidad})
	}

	nota := componerNota([]parteNota{
		{"Lugar", req.LugarProspeccion},
		{"Proyecto", req.ProyectoInteres},
		{"Presupuesto", req.Presupuesto},
		{"Modalidad de pago", req.ModalidadPago},
		{"Comentarios", req.Comentarios},
		{"Documento de identidad", req.DocumentoIdentidad},
		{"Celular", &req.Celular},
	})

	return s.sincronizarCRM(ctx, contacto, sincronizacion{
		upsert: infra.ContactUpsert{
			Name:         nombreCompleto,
			Phone:        *celular,
			Email:        deref(req.Email),
			CustomFields: customFields,
		},
		nota:              nota,
		nombreOportunidad: nombreCompleto,
		ownerGhlID:        ownerGhlID,
	})
}

func (s *intakeService) RegistrarEntornoPersonal(ctx context.Context, req dto.EntornoPersonalRequest) (*dto.IntakeResponse, error) {
	nombre := strings.TrimSpace(req.NombreCompleto)
	if nombre == "" {
		return nil, fmt.Errorf("%w: el nombre completo es obligatorio", ErrFaltanCampos)
	}

	if _, err := s.contactos.FindByNombreCompleto(ctx, nombre); err == nil {
		return nil, ErrNombreDuplicado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	usuario, ownerGhlID, err := s.resolverAsesor(ctx, req.UsuarioID)
	if err != nil {
		return nil, err
	}

	var celular *string
	if req.Celular != nil {
		celular = payload.PhoneE164(*req.Celular)
	}

	origen := origenEntorno
	contacto := &model.Contacto{
		NombreCompleto: &nombre,
		Celular:        celular,
		Email:          req.Email,
		Origen:         &origen,
		Latitud:        req.Latitud,
		Longitud:       req.Longitud,
		Canal:          model.CanalTradicional,
	}
	if err := s.contactos.Create(ctx, contacto); err != nil {
		return nil, err
	}

	log.Info().
		Str("contacto_id", contacto.ID.String()).
		Str("asesor_id", usuario.ID.String()).
		Msg("prospecto de entorno personal registrado")

	customFields := []infra.CustomField{}
	if s.cfg.CFOrigenID != "" {
		customFields = append(customFields, infra.CustomField{ID: s.cfg.CFOrigenID, Value: origenEntorno})
	}
	if s.cfg.CFLatitudID != "" && req.Latitud != nil {
		customFields = append(customFields, infra.CustomField{ID: s.cfg.CFLatitudID, Value: formatearFloat(*req.Latitud)})
	}
	if s.cfg.CFLongitudID != "" && req.Longitud != nil {
		customFields = append(customFields, infra.CustomField{ID: s.cfg.CFLongitudID, Value: formatearFloat(*req.Longitud)})
	}

	nota := componerNota([]parteNota{
		{"Celular registrado", req.Celular},
	})

	return s.sincronizarCRM(ctx, contacto, sincronizacion{
		upsert: infra.ContactUpsert{
			Name:         nombre,
			Phone:        deref(celular),
			Email:        deref(req.Email),
			CustomFields: customFields,
		},
		nota:              nota,
		nombreOportunidad: nombre,
		ownerGhlID:        ownerGhlID,
	})
}

type sincronizacion struct {
	upsert            infra.ContactUpsert
	nota              string
	nombreOportunidad string
	ownerGhlID        string
}

// sincronizarCRM pushes the contact, note and opportunity to HighLevel. The
// local row already exists, so any failure from here on returns 201 material
// with a warning instead of an error.
func (s *intakeService) sincronizarCRM(ctx context.Context, contacto *model.Contacto, sync sincronizacion) (*dto.IntakeResponse, error) {
	resp := &dto.IntakeResponse{OK: true, ContactoID: contacto.ID.String()}

	hlContactID, err := s.crm.UpsertContact(ctx, sync.upsert)
	if err != nil {
		log.Error().Err(err).Str("contacto_id", contacto.ID.String()).Msg("falló el upsert de contacto en el CRM")
		advertencia := "Contacto guardado, pero no se pudo sincronizar con el CRM."
		resp.Advertencia = &advertencia
		return resp, nil
	}

	if err := s.contactos.UpdateHlContactID(ctx, contacto.ID, hlContactID); err != nil {
		return nil, err
	}
	resp.HlContactID = &hlContactID

	if sync.nota != "" {
		if err := s.crm.CreateNote(ctx, hlContactID, sync.nota); err != nil {
			log.Error().Err(err).Str("hl_contact_id", hlContactID).Msg("falló la creación de la nota en el CRM")
		}
	}

	if err := s.crm.CreateOpportunity(ctx, infra.OpportunityCreate{
		PipelineID: s.cfg.PipelineID,
		StageID:    s.cfg.StageIDRecibida,
		ContactID:  hlContactID,
		Name:       sync.nombreOportunidad,
		Status:     "open",
		AssignedTo: sync.ownerGhlID,
	}); err != nil {
		log.Error().Err(err).Str("hl_contact_id", hlContactID).Msg("falló la creación de la oportunidad en el CRM")
		advertencia := "Contacto creado, pero la oportunidad falló."
		resp.Advertencia = &advertencia
	}

	return resp, nil
}

type parteNota struct {
	etiqueta string
	valor    *string
}

func componerNota(partes []parteNota) string {
	lineas := make([]string, 0, len(partes))
	for _, p := range partes {
		if p.valor != nil && strings.TrimSpace(*p.valor) != "" {
			lineas = append(lineas, p.etiqueta+": "+strings.TrimSpace(*p.valor))
		}
	}
	return strings.Join(lineas, "\n")
}

func formatearFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

package service

import (
	"context"

	"github.com/Bry504/red-de-agencias/internal/infra"
	"github.com/Bry504/red-de-agencias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ───────────────────────────────────────────────

type stubContactoRepo struct {
	contactos  []*model.Contacto
	updates    []map[string]any
	backfilled map[uuid.UUID]string
}

func newStubContactoRepo() *stubContactoRepo {
	return &stubContactoRepo{backfilled: make(map[uuid.UUID]string)}
}

func (r *stubContactoRepo) Create(_ context.Context, c *model.Contacto) error {
	c.ID = uuid.New()
	r.contactos = append(r.contactos, c)
	return nil
}

func (r *stubContactoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Contacto, error) {
	for _, c := range r.contactos {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubContactoRepo) FindByCelular(_ context.Context, celular string) (*model.Contacto, error) {
	for _, c := range r.contactos {
		if c.Celular != nil && *c.Celular == celular {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubContactoRepo) FindByNombreCompleto(_ context.Context, nombre string) (*model.Contacto, error) {
	for _, c := range r.contactos {
		if c.NombreCompleto != nil && *c.NombreCompleto == nombre {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubContactoRepo) FindByHlContactID(_ context.Context, hlID string) (*model.Contacto, error) {
	for _, c := range r.contactos {
		if c.HlContactID != nil && *c.HlContactID == hlID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubContactoRepo) UpdateByHlContactID(_ context.Context, hlID string, cols map[string]any) (int64, error) {
	for _, c := range r.contactos {
		if c.HlContactID != nil && *c.HlContactID == hlID {
			r.updates = append(r.updates, cols)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *stubContactoRepo) UpdateHlContactID(_ context.Context, id uuid.UUID, hlID string) error {
	r.backfilled[id] = hlID
	return nil
}

type stubUsuarioRepo struct {
	usuarios []*model.Usuario
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByGhlID(_ context.Context, ghlID string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.GhlID != nil && *u.GhlID == ghlID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type actualizacion struct {
	id   uuid.UUID
	cols map[string]any
}

type stubOportunidadRepo struct {
	oportunidades []*model.Oportunidad
	updates       []actualizacion
}

func (r *stubOportunidadRepo) Create(_ context.Context, o *model.Oportunidad) error {
	o.ID = uuid.New()
	r.oportunidades = append(r.oportunidades, o)
	return nil
}

func (r *stubOportunidadRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Oportunidad, error) {
	for _, o := range r.oportunidades {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOportunidadRepo) FindByHlOpportunityID(_ context.Context, hlID string) (*model.Oportunidad, error) {
	for _, o := range r.oportunidades {
		if o.HlOpportunityID != nil && *o.HlOpportunityID == hlID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOportunidadRepo) FindLatestByContactoID(_ context.Context, contactoID uuid.UUID) (*model.Oportunidad, error) {
	for i := len(r.oportunidades) - 1; i >= 0; i-- {
		o := r.oportunidades[i]
		if o.ContactoID != nil && *o.ContactoID == contactoID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOportunidadRepo) UpdateByID(_ context.Context, id uuid.UUID, cols map[string]any) error {
	r.updates = append(r.updates, actualizacion{id: id, cols: cols})
	return nil
}

type stubHistorialRepo struct {
	etapas         []*model.HistorialEtapa
	cambios        []*model.CambioPipeline
	reasignaciones []*model.Reasignacion
}

func (r *stubHistorialRepo) LastEtapa(_ context.Context, oportunidadID uuid.UUID) (*model.HistorialEtapa, error) {
	for i := len(r.etapas) - 1; i >= 0; i-- {
		if r.etapas[i].OportunidadID == oportunidadID {
			return r.etapas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubHistorialRepo) CreateEtapa(_ context.Context, h *model.HistorialEtapa) error {
	r.etapas = append(r.etapas, h)
	return nil
}

func (r *stubHistorialRepo) CreateCambioPipeline(_ context.Context, c *model.CambioPipeline) error {
	r.cambios = append(r.cambios, c)
	return nil
}

func (r *stubHistorialRepo) CreateReasignacion(_ context.Context, re *model.Reasignacion) error {
	r.reasignaciones = append(r.reasignaciones, re)
	return nil
}

type stubResultadoRepo struct {
	ganadas     []*model.OpGanada
	perdidas    []*model.OpPerdida
	abandonadas []*model.OpAbandonada
}

func (r *stubResultadoRepo) CreateGanada(_ context.Context, g *model.OpGanada) error {
	r.ganadas = append(r.ganadas, g)
	return nil
}

func (r *stubResultadoRepo) CreatePerdida(_ context.Context, p *model.OpPerdida) error {
	r.perdidas = append(r.perdidas, p)
	return nil
}

func (r *stubResultadoRepo) CreateAbandonada(_ context.Context, a *model.OpAbandonada) error {
	r.abandonadas = append(r.abandonadas, a)
	return nil
}

type stubNotaRepo struct {
	notas []*model.Nota
}

func (r *stubNotaRepo) Create(_ context.Context, n *model.Nota) error {
	r.notas = append(r.notas, n)
	return nil
}

type stubCitaRepo struct {
	citas []*model.CitaProgramada
}

func (r *stubCitaRepo) Create(_ context.Context, c *model.CitaProgramada) error {
	r.citas = append(r.citas, c)
	return nil
}

// ── CRM Gateway Stub ─────────────────────────────────────────────────────────

type stubCRM struct {
	contactID string
	upsertErr error
	noteErr   error
	oppErr    error

	upserts       []infra.ContactUpsert
	notas         []string
	oportunidades []infra.OpportunityCreate
}

func (c *stubCRM) UpsertContact(_ context.Context, body infra.ContactUpsert) (string, error) {
	if c.upsertErr != nil {
		return "", c.upsertErr
	}
	c.upserts = append(c.upserts, body)
	return c.contactID, nil
}

func (c *stubCRM) CreateNote(_ context.Context, _ string, contenido string) error {
	if c.noteErr != nil {
		return c.noteErr
	}
	c.notas = append(c.notas, contenido)
	return nil
}

func (c *stubCRM) CreateOpportunity(_ context.Context, body infra.OpportunityCreate) error {
	if c.oppErr != nil {
		return c.oppErr
	}
	c.oportunidades = append(c.oportunidades, body)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func ptr(s string) *string { return &s }

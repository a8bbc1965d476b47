package service

import (
	"context"
	"testing"

	"github.com/Bry504/red-de-agencias/internal/model"
	"github.com/Bry504/red-de-agencias/internal/payload"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type oportunidadFixture struct {
	repo       *stubOportunidadRepo
	contactos  *stubContactoRepo
	usuarios   *stubUsuarioRepo
	historial  *stubHistorialRepo
	resultados *stubResultadoRepo
	svc        OportunidadService
}

func newOportunidadFixture() *oportunidadFixture {
	f := &oportunidadFixture{
		repo:       &stubOportunidadRepo{},
		contactos:  newStubContactoRepo(),
		usuarios:   &stubUsuarioRepo{},
		historial:  &stubHistorialRepo{},
		resultados: &stubResultadoRepo{},
	}
	f.svc = NewOportunidadService(f.repo, f.contactos, f.usuarios, f.historial, f.resultados, NewEtapaService(f.historial))
	return f
}

func (f *oportunidadFixture) seedOportunidad(hlID string, propietarioID *uuid.UUID, pipeline *string) *model.Oportunidad {
	op := &model.Oportunidad{ID: uuid.New(), HlOpportunityID: &hlID, PropietarioID: propietarioID, Pipeline: pipeline}
	f.repo.oportunidades = append(f.repo.oportunidades, op)
	return op
}

func (f *oportunidadFixture) seedUsuario(ghlID string) *model.Usuario {
	u := &model.Usuario{ID: uuid.New(), GhlID: &ghlID, Activo: true}
	f.usuarios.usuarios = append(f.usuarios.usuarios, u)
	return u
}

func TestCrearOportunidadSinIDExterno(t *testing.T) {
	f := newOportunidadFixture()

	_, err := f.svc.Crear(context.Background(), payload.Doc{"producto": "Lote"})

	assert.ErrorIs(t, err, ErrFaltanCampos)
	assert.Empty(t, f.repo.oportunidades)
}

func TestCrearOportunidadResuelveReferencias(t *testing.T) {
	f := newOportunidadFixture()
	u := f.seedUsuario("ghl-asesor-1")
	contacto := &model.Contacto{ID: uuid.New(), HlContactID: ptr("hl-c-1")}
	f.contactos.contactos = append(f.contactos.contactos, contacto)

	op, err := f.svc.Crear(context.Background(), payload.Doc{
		"customData": map[string]any{
			"hl_opportunity_id": "hl-op-1",
			"hl_contact_id":     "hl-c-1",
			"propietario":       "ghl-asesor-1",
			"producto":          "Departamento",
			"arras":             "S/ 2,500.00",
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "hl-op-1", *op.HlOpportunityID)
	assert.Equal(t, contacto.ID, *op.ContactoID)
	assert.Equal(t, u.ID, *op.PropietarioID)
	assert.Equal(t, "Departamento", *op.Producto)
	assert.Equal(t, "2500", op.Arras.String())
}

func TestCrearOportunidadConPropietarioDesconocido(t *testing.T) {
	f := newOportunidadFixture()

	op, err := f.svc.Crear(context.Background(), payload.Doc{
		"hl_opportunity_id": "hl-op-2",
		"propietario":       "ghl-inexistente",
	})

	assert.NoError(t, err)
	assert.Nil(t, op.PropietarioID)
}

func TestActualizarOportunidadNoEncontrada(t *testing.T) {
	f := newOportunidadFixture()

	res, err := f.svc.Actualizar(context.Background(), payload.Doc{
		"customData": map[string]any{"hl_opportunity_id": "no-existe", "stage": "Presentación"},
	})

	assert.NoError(t, err)
	assert.False(t, res.Procesado)
	assert.Equal(t, "oportunidad no encontrada", res.Motivo)
	assert.Empty(t, f.repo.updates)
}

func TestActualizarRegistraReasignacionPipelineYEtapa(t *testing.T) {
	f := newOportunidadFixture()
	anterior := f.seedUsuario("ghl-a")
	nuevo := f.seedUsuario("ghl-b")
	op := f.seedOportunidad("hl-op-3", &anterior.ID, ptr("Ventas"))

	res, err := f.svc.Actualizar(context.Background(), payload.Doc{
		"customData": map[string]any{
			"hl_opportunity_id": "hl-op-3",
			"assignedTo":        "ghl-b",
			"pipeline":          "Remate",
			"stage":             "Negociación",
			"status":            "open",
		},
	})

	assert.NoError(t, err)
	assert.True(t, res.Procesado)

	if assert.Len(t, f.historial.reasignaciones, 1) {
		re := f.historial.reasignaciones[0]
		assert.Equal(t, op.ID, re.OportunidadID)
		assert.Equal(t, anterior.ID, *re.PropietarioAnterior)
		assert.Equal(t, nuevo.ID, *re.PropietarioActual)
	}
	if assert.Len(t, f.historial.cambios, 1) {
		cp := f.historial.cambios[0]
		assert.Equal(t, "Ventas", *cp.PipelineOrigen)
		assert.Equal(t, "Remate", cp.PipelineDestino)
	}
	if assert.Len(t, f.historial.etapas, 1) {
		assert.Nil(t, f.historial.etapas[0].EtapaOrigen)
		assert.Equal(t, "Negociación", f.historial.etapas[0].EtapaDestino)
	}
}

func TestActualizarSinAssignedToDesasigna(t *testing.T) {
	f := newOportunidadFixture()
	anterior := f.seedUsuario("ghl-a")
	f.seedOportunidad("hl-op-4", &anterior.ID, nil)

	res, err := f.svc.Actualizar(context.Background(), payload.Doc{
		"customData": map[string]any{"hl_opportunity_id": "hl-op-4"},
	})

	assert.NoError(t, err)
	assert.True(t, res.Procesado)
	if assert.Len(t, f.repo.updates, 1) {
		assert.Nil(t, f.repo.updates[0].cols["propietario_id"])
		assert.NotContains(t, f.repo.updates[0].cols, "pipeline")
	}
	if assert.Len(t, f.historial.reasignaciones, 1) {
		assert.Nil(t, f.historial.reasignaciones[0].PropietarioActual)
	}
}

func TestActualizarMismoPipelineNoRegistraCambio(t *testing.T) {
	f := newOportunidadFixture()
	f.seedOportunidad("hl-op-5", nil, ptr("Ventas"))

	res, err := f.svc.Actualizar(context.Background(), payload.Doc{
		"customData": map[string]any{"hl_opportunity_id": "hl-op-5", "pipeline": "Ventas"},
	})

	assert.NoError(t, err)
	assert.True(t, res.Procesado)
	assert.Empty(t, f.historial.cambios)
	assert.Empty(t, f.historial.reasignaciones)
}

func TestRegistrarCambioEtapaSinCambio(t *testing.T) {
	f := newOportunidadFixture()
	op := f.seedOportunidad("hl-op-6", nil, nil)
	f.historial.etapas = append(f.historial.etapas, &model.HistorialEtapa{
		OportunidadID: op.ID,
		EtapaDestino:  "Presentación",
	})

	res, err := f.svc.RegistrarCambioEtapa(context.Background(), payload.Doc{
		"customData": map[string]any{"hl_opportunity_id": "hl-op-6", "etapa_destino": "Presentación"},
	})

	assert.NoError(t, err)
	assert.False(t, res.Procesado)
	assert.Equal(t, "etapa sin cambio", res.Motivo)
	assert.Len(t, f.historial.etapas, 1)
}

func TestRegistrarCambioEtapaSinDestino(t *testing.T) {
	f := newOportunidadFixture()
	f.seedOportunidad("hl-op-7", nil, nil)

	_, err := f.svc.RegistrarCambioEtapa(context.Background(), payload.Doc{
		"customData": map[string]any{"hl_opportunity_id": "hl-op-7"},
	})

	assert.ErrorIs(t, err, ErrFaltanCampos)
}

func TestRegistrarReasignacionMismoPropietario(t *testing.T) {
	f := newOportunidadFixture()
	u := f.seedUsuario("ghl-a")
	f.seedOportunidad("hl-op-8", &u.ID, nil)

	res, err := f.svc.RegistrarReasignacion(context.Background(), payload.Doc{
		"customData": map[string]any{"hl_opportunity_id": "hl-op-8", "propietario": "ghl-a"},
	})

	assert.NoError(t, err)
	assert.False(t, res.Procesado)
	assert.Equal(t, "mismo propietario", res.Motivo)
	assert.Empty(t, f.historial.reasignaciones)
}

func TestRegistrarReasignacionActualizaPropietario(t *testing.T) {
	f := newOportunidadFixture()
	anterior := f.seedUsuario("ghl-a")
	nuevo := f.seedUsuario("ghl-b")
	op := f.seedOportunidad("hl-op-9", &anterior.ID, nil)

	res, err := f.svc.RegistrarReasignacion(context.Background(), payload.Doc{
		"customData": map[string]any{"hl_opportunity_id": "hl-op-9", "propietario": "ghl-b"},
	})

	assert.NoError(t, err)
	assert.True(t, res.Procesado)
	if assert.Len(t, f.historial.reasignaciones, 1) {
		assert.Equal(t, anterior.ID, *f.historial.reasignaciones[0].PropietarioAnterior)
		assert.Equal(t, nuevo.ID, *f.historial.reasignaciones[0].PropietarioActual)
	}
	if assert.Len(t, f.repo.updates, 1) {
		assert.Equal(t, op.ID, f.repo.updates[0].id)
		assert.Equal(t, nuevo.ID, f.repo.updates[0].cols["propietario_id"])
	}
}

func TestRegistrarReasignacionPropietarioDesconocido(t *testing.T) {
	f := newOportunidadFixture()
	f.seedOportunidad("hl-op-10", nil, nil)

	res, err := f.svc.RegistrarReasignacion(context.Background(), payload.Doc{
		"customData": map[string]any{"hl_opportunity_id": "hl-op-10", "propietario": "ghl-inexistente"},
	})

	assert.NoError(t, err)
	assert.False(t, res.Procesado)
	assert.Equal(t, "propietario no encontrado", res.Motivo)
}

func TestRegistrarGanadaGuardaMontosYEstado(t *testing.T) {
	f := newOportunidadFixture()
	op := f.seedOportunidad("hl-op-11", nil, nil)

	res, err := f.svc.RegistrarGanada(context.Background(), payload.Doc{
		"customData": map[string]any{
			"hl_opportunity_id":    "hl-op-11",
			"arras":                "S/ 12,500.00",
			"cuota_inicial_pagada": "30000",
			"pipeline":             "Ventas",
		},
	})

	assert.NoError(t, err)
	assert.True(t, res.Procesado)
	if assert.Len(t, f.resultados.ganadas, 1) {
		g := f.resultados.ganadas[0]
		assert.Equal(t, op.ID, g.OportunidadID)
		assert.Equal(t, "12500", g.Arras.String())
		assert.Equal(t, "30000", g.CuotaInicialPagada.String())
	}
	if assert.Len(t, f.repo.updates, 1) {
		assert.Equal(t, model.EstadoGanada, f.repo.updates[0].cols["estado"])
	}
}

func TestRegistrarPerdidaConFotoDeEtapa(t *testing.T) {
	f := newOportunidadFixture()
	op := f.seedOportunidad("hl-op-12", nil, nil)
	f.historial.etapas = append(f.historial.etapas, &model.HistorialEtapa{
		OportunidadID: op.ID,
		EtapaDestino:  "Negociación",
	})

	res, err := f.svc.RegistrarPerdida(context.Background(), payload.Doc{
		"customData": map[string]any{
			"hl_opportunity_id": "hl-op-12",
			"motivo_de_perdida": "Precio",
		},
	})

	assert.NoError(t, err)
	assert.True(t, res.Procesado)
	if assert.Len(t, f.resultados.perdidas, 1) {
		p := f.resultados.perdidas[0]
		assert.Equal(t, "Precio", *p.MotivoDePerdida)
		assert.Equal(t, "Negociación", *p.EtapaDePerdida)
	}
	assert.Equal(t, model.EstadoPerdida, f.repo.updates[0].cols["estado"])
}

func TestRegistrarAbandonadaOportunidadNoEncontrada(t *testing.T) {
	f := newOportunidadFixture()

	res, err := f.svc.RegistrarAbandonada(context.Background(), payload.Doc{
		"hl_opportunity_id": "no-existe",
	})

	assert.NoError(t, err)
	assert.False(t, res.Procesado)
	assert.Equal(t, "oportunidad no encontrada", res.Motivo)
	assert.Empty(t, f.resultados.abandonadas)
}

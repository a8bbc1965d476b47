package service

import (
	"context"
	"testing"

	"github.com/Bry504/red-de-agencias/internal/model"
	"github.com/Bry504/red-de-agencias/internal/payload"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCrearNotaPipelineDesdeOportunidad(t *testing.T) {
	notas := &stubNotaRepo{}
	contactos := newStubContactoRepo()
	usuarios := &stubUsuarioRepo{}
	oportunidades := &stubOportunidadRepo{}

	contacto := &model.Contacto{ID: uuid.New(), HlContactID: ptr("hl-c-1")}
	contactos.contactos = append(contactos.contactos, contacto)
	oportunidades.oportunidades = append(oportunidades.oportunidades, &model.Oportunidad{
		ID:              uuid.New(),
		HlOpportunityID: ptr("hl-op-1"),
		Pipeline:        ptr("Ventas"),
	})

	svc := NewNotaService(notas, contactos, usuarios, oportunidades)

	res, err := svc.Crear(context.Background(), payload.Doc{
		"customData": map[string]any{
			"nota":              "Cliente pidió cotización",
			"contacto":          "hl-c-1",
			"hl_opportunity_id": "hl-op-1",
			"pipeline":          "texto del webhook",
		},
	})

	assert.NoError(t, err)
	assert.True(t, res.Procesado)
	if assert.Len(t, notas.notas, 1) {
		n := notas.notas[0]
		assert.Equal(t, "Cliente pidió cotización", n.Nota)
		assert.Equal(t, contacto.ID, *n.ContactoID)
		// el pipeline almacenado gana sobre el texto del payload
		assert.Equal(t, "Ventas", *n.Pipeline)
	}
}

func TestCrearNotaSinTexto(t *testing.T) {
	svc := NewNotaService(&stubNotaRepo{}, newStubContactoRepo(), &stubUsuarioRepo{}, &stubOportunidadRepo{})

	_, err := svc.Crear(context.Background(), payload.Doc{
		"customData": map[string]any{"contacto": "hl-c-1"},
	})

	assert.ErrorIs(t, err, ErrFaltanCampos)
}

func TestCrearNotaConReferenciasDesconocidas(t *testing.T) {
	notas := &stubNotaRepo{}
	svc := NewNotaService(notas, newStubContactoRepo(), &stubUsuarioRepo{}, &stubOportunidadRepo{})

	res, err := svc.Crear(context.Background(), payload.Doc{
		"customData": map[string]any{
			"nota":        "Seguimiento pendiente",
			"contacto":    "no-existe",
			"propietario": "ghl-x",
			"pipeline":    "Ventas",
		},
	})

	assert.NoError(t, err)
	assert.True(t, res.Procesado)
	if assert.Len(t, notas.notas, 1) {
		assert.Nil(t, notas.notas[0].ContactoID)
		assert.Nil(t, notas.notas[0].PropietarioID)
		assert.Equal(t, "Ventas", *notas.notas[0].Pipeline)
	}
}

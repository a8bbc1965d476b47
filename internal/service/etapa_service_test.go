package service

import (
	"context"
	"testing"

	"github.com/Bry504/red-de-agencias/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegistrarCambioPrimeraTransicion(t *testing.T) {
	historial := &stubHistorialRepo{}
	svc := NewEtapaService(historial)
	opID := uuid.New()

	inserted, err := svc.RegistrarCambio(context.Background(), opID, nil, "Oportunidad recibida", ptr("Ventas"))

	assert.NoError(t, err)
	assert.True(t, inserted)
	if assert.Len(t, historial.etapas, 1) {
		assert.Nil(t, historial.etapas[0].EtapaOrigen)
		assert.Equal(t, "Oportunidad recibida", historial.etapas[0].EtapaDestino)
		assert.Equal(t, "Ventas", *historial.etapas[0].Pipeline)
	}
}

func TestRegistrarCambioEncadenaOrigen(t *testing.T) {
	opID := uuid.New()
	historial := &stubHistorialRepo{etapas: []*model.HistorialEtapa{
		{OportunidadID: opID, EtapaDestino: "Oportunidad recibida"},
	}}
	svc := NewEtapaService(historial)

	inserted, err := svc.RegistrarCambio(context.Background(), opID, nil, "Presentación", nil)

	assert.NoError(t, err)
	assert.True(t, inserted)
	if assert.Len(t, historial.etapas, 2) {
		assert.Equal(t, "Oportunidad recibida", *historial.etapas[1].EtapaOrigen)
		assert.Equal(t, "Presentación", historial.etapas[1].EtapaDestino)
	}
}

func TestRegistrarCambioEtapaRepetidaNoInserta(t *testing.T) {
	opID := uuid.New()
	historial := &stubHistorialRepo{etapas: []*model.HistorialEtapa{
		{OportunidadID: opID, EtapaDestino: "Presentación"},
	}}
	svc := NewEtapaService(historial)

	inserted, err := svc.RegistrarCambio(context.Background(), opID, nil, "Presentación", nil)

	assert.NoError(t, err)
	assert.False(t, inserted)
	assert.Len(t, historial.etapas, 1)
}

func TestRegistrarCambioIgnoraEtapasDeOtraOportunidad(t *testing.T) {
	opID := uuid.New()
	historial := &stubHistorialRepo{etapas: []*model.HistorialEtapa{
		{OportunidadID: uuid.New(), EtapaDestino: "Cierre"},
	}}
	svc := NewEtapaService(historial)

	inserted, err := svc.RegistrarCambio(context.Background(), opID, nil, "Cierre", nil)

	assert.NoError(t, err)
	assert.True(t, inserted)
	assert.Nil(t, historial.etapas[1].EtapaOrigen)
}

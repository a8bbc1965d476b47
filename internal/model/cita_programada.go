package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos canónicos de cita. Un texto que no matchea ninguna palabra clave se
// guarda tal cual llegó.
const (
	CitaTipoPresentacion   = "Presentación"
	CitaTipoVisitaProyecto = "Visita a proyecto"
)

// CitaProgramada is a calendar appointment synced from the CRM.
// DateInicioReunion duplicates the date part of FechaHoraInicio so daily
// reports can group without timezone arithmetic.
type CitaProgramada struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GhlAppointmentID  *string    `gorm:"index"`
	OportunidadID     *uuid.UUID `gorm:"type:uuid;index"`
	PropietarioID     *uuid.UUID `gorm:"type:uuid"`
	Tipo              *string
	FechaHoraInicio   *time.Time
	DateInicioReunion *time.Time `gorm:"type:date"`
	CreatedAt         time.Time
}

func (CitaProgramada) TableName() string { return "citas_programadas" }

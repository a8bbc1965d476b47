package model

import (
	"time"

	"github.com/google/uuid"
)

// HistorialEtapa records one stage transition of an opportunity. Origen is
// the previously recorded destination, null on the first transition.
type HistorialEtapa struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OportunidadID uuid.UUID  `gorm:"type:uuid;index;not null"`
	PropietarioID *uuid.UUID `gorm:"type:uuid"`
	EtapaOrigen   *string
	EtapaDestino  string `gorm:"not null"`
	Pipeline      *string
	CreatedAt     time.Time
}

func (HistorialEtapa) TableName() string { return "historial_etapas" }

// CambioPipeline records an opportunity moving between pipelines. Estado is
// the opportunity status reported by the same webhook.
type CambioPipeline struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OportunidadID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Estado          *string
	PipelineOrigen  *string
	PipelineDestino string `gorm:"not null"`
	CreatedAt       time.Time
}

func (CambioPipeline) TableName() string { return "cambios_pipeline" }

// Reasignacion records an ownership change of an opportunity. Either side can
// be null: unassigned before, or unassigned after.
type Reasignacion struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OportunidadID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	PropietarioAnterior *uuid.UUID `gorm:"type:uuid"`
	PropietarioActual   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time
}

func (Reasignacion) TableName() string { return "reasignaciones" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Terminal outcome fact rows. Each close event inserts exactly one row in the
// table matching its outcome. The pipeline is captured as text so the row
// survives a later rename of the pipeline in the CRM. The closing stage is a
// snapshot of the last recorded stage, not a payload field.

type OpGanada struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OportunidadID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	PropietarioID      *uuid.UUID `gorm:"type:uuid"`
	Pipeline           *string
	Arras              *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CuotaInicialPagada *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt          time.Time
}

func (OpGanada) TableName() string { return "op_ganadas" }

type OpPerdida struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OportunidadID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	PropietarioID   *uuid.UUID `gorm:"type:uuid"`
	MotivoDePerdida *string
	Pipeline        *string
	EtapaDePerdida  *string
	CreatedAt       time.Time
}

func (OpPerdida) TableName() string { return "op_perdidas" }

type OpAbandonada struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OportunidadID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	PropietarioID   *uuid.UUID `gorm:"type:uuid"`
	Pipeline        *string
	EtapaDeAbandono *string
	CreatedAt       time.Time
}

func (OpAbandonada) TableName() string { return "op_abandonadas" }

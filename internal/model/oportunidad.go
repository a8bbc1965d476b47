package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados terminales de una oportunidad. Antes de cerrar, el estado es el
// texto libre que envía HighLevel (normalmente "open").
const (
	EstadoGanada     = "ganada"
	EstadoPerdida    = "perdida"
	EstadoAbandonada = "abandonada"
)

// Oportunidad is a sales pipeline entry. HlOpportunityID is the natural key
// for every update/lookup coming from HighLevel. ContactoID and PropietarioID
// are nullable: a webhook whose external reference does not resolve locally
// still persists the row with a null FK.
type Oportunidad struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContactoID            *uuid.UUID `gorm:"type:uuid;index"`
	PropietarioID         *uuid.UUID `gorm:"type:uuid;index"`
	HlOpportunityID       *string    `gorm:"uniqueIndex"`
	Estado                *string
	NivelDeInteres        *string
	TipoDeCliente         *string
	Producto              *string
	Proyecto              *string
	ModalidadDePago       *string
	MotivoDeSeguimiento   *string
	PrincipalesObjeciones *string
	// Pipeline se mantiene sincronizado como conveniencia; la historia real
	// de cambios vive en cambios_pipeline e historial_etapas.
	Pipeline           *string
	Arras              *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CuotaInicialPagada *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Contacto    *Contacto `gorm:"foreignKey:ContactoID"`
	Propietario *Usuario  `gorm:"foreignKey:PropietarioID"`
}

func (Oportunidad) TableName() string { return "oportunidades" }

package model

import (
	"time"

	"github.com/google/uuid"
)

// Canal identifies the intake channel that produced a contact.
const (
	CanalTradicional = "TRADICIONAL"
	CanalDigital     = "DIGITAL"
)

// Contacto is a person record synchronized with HighLevel.
// Celular is stored in E.164 (+51 plus the last nine digits) and is the
// natural key for the field-intake duplicate guard. HlContactID is the
// HighLevel contact id — a foreign natural key, never the primary key.
// Rows are created by contact-created webhooks or form intake and updated
// by contact-updated webhooks; this system never deletes them.
type Contacto struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreCompleto       *string   `gorm:"index"`
	Celular              *string   `gorm:"uniqueIndex"`
	DocumentoDeIdentidad *string
	EstadoCivil          *string
	DistritoDeResidencia *string
	Profesion            *string
	Email                *string
	Origen               *string
	FechaDeNacimiento    *time.Time `gorm:"type:date"`
	HlContactID          *string    `gorm:"index"`
	Latitud              *float64
	Longitud             *float64

	// Atribución de campañas, solo poblada por el canal digital.
	NombreAnuncio      *string
	ConjuntoDeAnuncios *string
	NombreCampana      *string `gorm:"column:nombre_campaña"`
	FuenteDigital      *string
	ProyectoFormulario *string
	IDRegistroCliente  *string `gorm:"column:id_registro_cliente"`

	Canal     string `gorm:"not null;default:'TRADICIONAL'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Contacto) TableName() string { return "contactos" }

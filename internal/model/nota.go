package model

import (
	"time"

	"github.com/google/uuid"
)

// Nota is a free-text note. It links to the contact and the advisor; the
// pipeline is copied from the stored opportunity at insert time so the note
// keeps its commercial context even if the opportunity moves later.
type Nota struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContactoID    *uuid.UUID `gorm:"type:uuid;index"`
	PropietarioID *uuid.UUID `gorm:"type:uuid"`
	Pipeline      *string
	Nota          string `gorm:"not null"`
	CreatedAt     time.Time
}

func (Nota) TableName() string { return "notas" }

package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is a sales-agent record. Read-only from this system's perspective:
// only the GhlID column is consulted, to resolve owner/assignedTo references
// coming from HighLevel webhooks.
type Usuario struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    *string
	Email     *string
	GhlID     *string `gorm:"index"`
	Activo    bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Usuario) TableName() string { return "usuarios" }

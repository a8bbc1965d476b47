package repository

import (
	"context"

	"github.com/Bry504/red-de-agencias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistorialRepository covers the append-only trail tables: stage history,
// pipeline changes and reassignments.
type HistorialRepository interface {
	// LastEtapa returns the most recent stage row for an opportunity, or
	// gorm.ErrRecordNotFound when no transition was recorded yet.
	LastEtapa(ctx context.Context, oportunidadID uuid.UUID) (*model.HistorialEtapa, error)

	CreateEtapa(ctx context.Context, h *model.HistorialEtapa) error
	CreateCambioPipeline(ctx context.Context, c *model.CambioPipeline) error
	CreateReasignacion(ctx context.Context, re *model.Reasignacion) error
}

type historialRepo struct{ db *gorm.DB }

func NewHistorialRepository(db *gorm.DB) HistorialRepository { return &historialRepo{db: db} }

func (r *historialRepo) LastEtapa(ctx context.Context, oportunidadID uuid.UUID) (*model.HistorialEtapa, error) {
	var h model.HistorialEtapa
	err := r.db.WithContext(ctx).
		Where("oportunidad_id = ?", oportunidadID).
		Order("created_at DESC").
		First(&h).Error
	return &h, err
}

func (r *historialRepo) CreateEtapa(ctx context.Context, h *model.HistorialEtapa) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historialRepo) CreateCambioPipeline(ctx context.Context, c *model.CambioPipeline) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *historialRepo) CreateReasignacion(ctx context.Context, re *model.Reasignacion) error {
	return r.db.WithContext(ctx).Create(re).Error
}

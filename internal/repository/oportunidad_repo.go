package repository

import (
	"context"

	"github.com/Bry504/red-de-agencias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OportunidadRepository defines the data access contract for opportunities.
type OportunidadRepository interface {
	Create(ctx context.Context, o *model.Oportunidad) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Oportunidad, error)
	FindByHlOpportunityID(ctx context.Context, hlID string) (*model.Oportunidad, error)

	// FindLatestByContactoID is the fallback when a webhook carries no
	// opportunity id but the contact is known.
	FindLatestByContactoID(ctx context.Context, contactoID uuid.UUID) (*model.Oportunidad, error)

	UpdateByID(ctx context.Context, id uuid.UUID, cols map[string]any) error
}

type oportunidadRepo struct{ db *gorm.DB }

func NewOportunidadRepository(db *gorm.DB) OportunidadRepository { return &oportunidadRepo{db: db} }

func (r *oportunidadRepo) Create(ctx context.Context, o *model.Oportunidad) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *oportunidadRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Oportunidad, error) {
	var o model.Oportunidad
	err := r.db.WithContext(ctx).First(&o, id).Error
	return &o, err
}

func (r *oportunidadRepo) FindByHlOpportunityID(ctx context.Context, hlID string) (*model.Oportunidad, error) {
	var o model.Oportunidad
	err := r.db.WithContext(ctx).Where("hl_opportunity_id = ?", hlID).First(&o).Error
	return &o, err
}

func (r *oportunidadRepo) FindLatestByContactoID(ctx context.Context, contactoID uuid.UUID) (*model.Oportunidad, error) {
	var o model.Oportunidad
	err := r.db.WithContext(ctx).
		Where("contacto_id = ?", contactoID).
		Order("created_at DESC").
		First(&o).Error
	return &o, err
}

func (r *oportunidadRepo) UpdateByID(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Oportunidad{}).
		Where("id = ?", id).
		Updates(cols).Error
}

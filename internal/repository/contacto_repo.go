package repository

import (
	"context"

	"github.com/Bry504/red-de-agencias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactoRepository defines the data access contract for contacts.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via mocks.
type ContactoRepository interface {
	Create(ctx context.Context, c *model.Contacto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contacto, error)
	FindByCelular(ctx context.Context, celular string) (*model.Contacto, error)
	FindByNombreCompleto(ctx context.Context, nombre string) (*model.Contacto, error)
	FindByHlContactID(ctx context.Context, hlID string) (*model.Contacto, error)

	// UpdateByHlContactID applies a partial column map and reports how many
	// rows matched. Zero rows means the contact is not known locally.
	UpdateByHlContactID(ctx context.Context, hlID string, cols map[string]any) (int64, error)

	// UpdateHlContactID backfills the CRM id after a successful upsert.
	UpdateHlContactID(ctx context.Context, id uuid.UUID, hlID string) error
}

type contactoRepo struct{ db *gorm.DB }

func NewContactoRepository(db *gorm.DB) ContactoRepository { return &contactoRepo{db: db} }

func (r *contactoRepo) Create(ctx context.Context, c *model.Contacto) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *contactoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contacto, error) {
	var c model.Contacto
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *contactoRepo) FindByCelular(ctx context.Context, celular string) (*model.Contacto, error) {
	var c model.Contacto
	err := r.db.WithContext(ctx).Where("celular = ?", celular).First(&c).Error
	return &c, err
}

func (r *contactoRepo) FindByNombreCompleto(ctx context.Context, nombre string) (*model.Contacto, error) {
	var c model.Contacto
	err := r.db.WithContext(ctx).Where("nombre_completo = ?", nombre).First(&c).Error
	return &c, err
}

func (r *contactoRepo) FindByHlContactID(ctx context.Context, hlID string) (*model.Contacto, error) {
	var c model.Contacto
	err := r.db.WithContext(ctx).Where("hl_contact_id = ?", hlID).First(&c).Error
	return &c, err
}

func (r *contactoRepo) UpdateByHlContactID(ctx context.Context, hlID string, cols map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Contacto{}).
		Where("hl_contact_id = ?", hlID).
		Updates(cols)
	return res.RowsAffected, res.Error
}

func (r *contactoRepo) UpdateHlContactID(ctx context.Context, id uuid.UUID, hlID string) error {
	return r.db.WithContext(ctx).Model(&model.Contacto{}).
		Where("id = ?", id).
		Update("hl_contact_id", hlID).Error
}

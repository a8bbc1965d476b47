package repository

import (
	"context"

	"github.com/Bry504/red-de-agencias/internal/model"

	"gorm.io/gorm"
)

type CitaRepository interface {
	Create(ctx context.Context, c *model.CitaProgramada) error
}

type citaRepo struct{ db *gorm.DB }

func NewCitaRepository(db *gorm.DB) CitaRepository { return &citaRepo{db: db} }

func (r *citaRepo) Create(ctx context.Context, c *model.CitaProgramada) error {
	return r.db.WithContext(ctx).Create(c).Error
}

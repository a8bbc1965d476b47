package repository

import (
	"context"

	"github.com/Bry504/red-de-agencias/internal/model"

	"gorm.io/gorm"
)

type NotaRepository interface {
	Create(ctx context.Context, n *model.Nota) error
}

type notaRepo struct{ db *gorm.DB }

func NewNotaRepository(db *gorm.DB) NotaRepository { return &notaRepo{db: db} }

func (r *notaRepo) Create(ctx context.Context, n *model.Nota) error {
	return r.db.WithContext(ctx).Create(n).Error
}

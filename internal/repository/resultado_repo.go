package repository

import (
	"context"

	"github.com/Bry504/red-de-agencias/internal/model"

	"gorm.io/gorm"
)

// ResultadoRepository persists terminal outcome fact rows.
type ResultadoRepository interface {
	CreateGanada(ctx context.Context, g *model.OpGanada) error
	CreatePerdida(ctx context.Context, p *model.OpPerdida) error
	CreateAbandonada(ctx context.Context, a *model.OpAbandonada) error
}

type resultadoRepo struct{ db *gorm.DB }

func NewResultadoRepository(db *gorm.DB) ResultadoRepository { return &resultadoRepo{db: db} }

func (r *resultadoRepo) CreateGanada(ctx context.Context, g *model.OpGanada) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *resultadoRepo) CreatePerdida(ctx context.Context, p *model.OpPerdida) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *resultadoRepo) CreateAbandonada(ctx context.Context, a *model.OpAbandonada) error {
	return r.db.WithContext(ctx).Create(a).Error
}

package repository

import (
	"context"

	"github.com/Bry504/red-de-agencias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsuarioRepository resolves advisors. The table is managed elsewhere, so
// this repository is read-only.
type UsuarioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	FindByGhlID(ctx context.Context, ghlID string) (*model.Usuario, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *usuarioRepo) FindByGhlID(ctx context.Context, ghlID string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("ghl_id = ?", ghlID).First(&u).Error
	return &u, err
}

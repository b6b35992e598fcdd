package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
)

// AccessCodeRepository defines read access to registration codes. The
// application never mutates them; cmd/seed provisions the rows.
type AccessCodeRepository interface {
	FindActiveByCode(ctx context.Context, code string) (*model.AccessCode, error)
	FindActiveByRole(ctx context.Context, role string) (*model.AccessCode, error)
}

type accessCodeRepository struct {
	db *gorm.DB
}

// NewAccessCodeRepository creates a new access code repository.
func NewAccessCodeRepository(db *gorm.DB) AccessCodeRepository {
	return &accessCodeRepository{db: db}
}

// FindActiveByCode finds an active code by its secret value.
func (r *accessCodeRepository) FindActiveByCode(ctx context.Context, code string) (*model.AccessCode, error) {
	var ac model.AccessCode
	if err := r.db.WithContext(ctx).
		Where("codigo = ? AND activo = ?", code, true).
		First(&ac).Error; err != nil {
		return nil, err
	}
	return &ac, nil
}

// FindActiveByRole finds any active code granting the given role. Used to
// resolve a role name back to a code reference when an admin assigns roles.
func (r *accessCodeRepository) FindActiveByRole(ctx context.Context, role string) (*model.AccessCode, error) {
	var ac model.AccessCode
	if err := r.db.WithContext(ctx).
		Where("tipo_usuario = ? AND activo = ?", role, true).
		First(&ac).Error; err != nil {
		return nil, err
	}
	return &ac, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
)

// UserCredentials is the login projection: the stored hash together with the
// role derived from the referenced access code.
type UserCredentials struct {
	ID           uint   `gorm:"column:id"`
	Username     string `gorm:"column:nombre_usuario"`
	PasswordHash string `gorm:"column:password_hash"`
	Role         string `gorm:"column:tipo_usuario"`
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindCredentials(ctx context.Context, username string) (*UserCredentials, error)
	FindWithRole(ctx context.Context, id uint) (*model.UserWithRole, error)
	ListWithRole(ctx context.Context) ([]model.UserWithRole, error)
	UpdateUsernameAndCode(ctx context.Context, id uint, username string, accessCodeID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByUsername finds a user by its unique username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("nombre_usuario = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindCredentials joins a user with its access code to resolve the role.
func (r *userRepository) FindCredentials(ctx context.Context, username string) (*UserCredentials, error) {
	var creds UserCredentials
	err := r.db.WithContext(ctx).
		Table("usuarios u").
		Select("u.id, u.nombre_usuario, u.password_hash, c.tipo_usuario").
		Joins("JOIN codigos_acceso c ON u.codigo_acceso_id = c.id").
		Where("u.nombre_usuario = ?", username).
		Take(&creds).Error
	if err != nil {
		return nil, err
	}
	return &creds, nil
}

// FindWithRole returns the listing projection of a single user.
func (r *userRepository) FindWithRole(ctx context.Context, id uint) (*model.UserWithRole, error) {
	var user model.UserWithRole
	err := r.db.WithContext(ctx).
		Table("usuarios u").
		Select("u.id, u.nombre_usuario, c.tipo_usuario").
		Joins("JOIN codigos_acceso c ON u.codigo_acceso_id = c.id").
		Where("u.id = ?", id).
		Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListWithRole returns all users with their roles, ordered by username.
func (r *userRepository) ListWithRole(ctx context.Context) ([]model.UserWithRole, error) {
	var users []model.UserWithRole
	err := r.db.WithContext(ctx).
		Table("usuarios u").
		Select("u.id, u.nombre_usuario, c.tipo_usuario").
		Joins("JOIN codigos_acceso c ON u.codigo_acceso_id = c.id").
		Order("u.nombre_usuario ASC").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUsernameAndCode rewrites the username and access-code reference,
// leaving the password hash untouched. Returns the number of affected rows.
func (r *userRepository) UpdateUsernameAndCode(ctx context.Context, id uint, username string, accessCodeID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"nombre_usuario":   username,
			"codigo_acceso_id": accessCodeID,
		})
	return res.RowsAffected, res.Error
}

// Delete hard-deletes a user. Deleting a missing id is a no-op.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	errs "github.com/l23212212/Sistema-Expedientes-Clinicos/internal/errors"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/repository"
)

// UserService handles the admin-side user management screens.
type UserService interface {
	List(ctx context.Context) ([]model.UserWithRole, error)
	Get(ctx context.Context, id uint) (*model.UserWithRole, error)
	Create(ctx context.Context, username, password, role string) (*model.User, error)
	Update(ctx context.Context, id uint, username, role string) error
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	userRepo repository.UserRepository
	codeRepo repository.AccessCodeRepository
}

// NewUserService creates a new user management service.
func NewUserService(userRepo repository.UserRepository, codeRepo repository.AccessCodeRepository) UserService {
	return &userService{
		userRepo: userRepo,
		codeRepo: codeRepo,
	}
}

// List returns all users with their roles, ordered by username.
func (s *userService) List(ctx context.Context) ([]model.UserWithRole, error) {
	users, err := s.userRepo.ListWithRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns one user with its role.
func (s *userService) Get(ctx context.Context, id uint) (*model.UserWithRole, error) {
	user, err := s.userRepo.FindWithRole(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Create provisions a user directly with a role, bypassing registration
// codes. Admin-only path.
func (s *userService) Create(ctx context.Context, username, password, role string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errs.NewValidation("Todos los campos son obligatorios")
	}

	code, err := s.resolveRole(ctx, role)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, errs.ErrDuplicateUser
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		AccessCodeID: code.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update rewrites username and role assignment. The password hash is never
// touched here.
func (s *userService) Update(ctx context.Context, id uint, username, role string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errs.NewValidation("El nombre de usuario es obligatorio")
	}

	code, err := s.resolveRole(ctx, role)
	if err != nil {
		return err
	}

	// Existence check first: an UPDATE that changes nothing also reports
	// zero affected rows, so RowsAffected alone cannot distinguish missing.
	if _, err := s.userRepo.FindWithRole(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if _, err := s.userRepo.UpdateUsernameAndCode(ctx, id, username, code.ID); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete hard-deletes a user. Deleting a missing id is not an error.
func (s *userService) Delete(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) resolveRole(ctx context.Context, role string) (*model.AccessCode, error) {
	code, err := s.codeRepo.FindActiveByRole(ctx, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidRole
		}
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	return code, nil
}

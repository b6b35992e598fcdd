package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/auth"
	errs "github.com/l23212212/Sistema-Expedientes-Clinicos/internal/errors"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/repository"
)

const bcryptCost = 10

// dummyHash is compared against when the username does not exist, so the
// not-found and wrong-password paths cost the same and login timing cannot
// be used to enumerate usernames.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("expedientes-clinicos"), bcryptCost)

// AuthService handles registration and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, password, code string) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, sess auth.Session, err error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo repository.UserRepository
	codeRepo repository.AccessCodeRepository
	sessions auth.SessionStore
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, codeRepo repository.AccessCodeRepository, sessions auth.SessionStore) AuthService {
	return &authService{
		userRepo: userRepo,
		codeRepo: codeRepo,
		sessions: sessions,
	}
}

// Register creates a user from a valid access code. No session is created;
// the user logs in afterwards.
func (s *authService) Register(ctx context.Context, username, password, code string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || code == "" {
		return nil, errs.NewValidation("Todos los campos son obligatorios")
	}

	accessCode, err := s.codeRepo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidAccessCode
		}
		return nil, fmt.Errorf("resolve access code: %w", err)
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
		AccessCodeID: accessCode.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Races past the pre-check still hit the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login authenticates and opens a session. Unknown user and wrong password
// collapse into the same error.
func (s *authService) Login(ctx context.Context, username, password string) (string, auth.Session, error) {
	// Registration stores the trimmed name; match it here.
	username = strings.TrimSpace(username)
	creds, err := s.userRepo.FindCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a hash comparison anyway.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", auth.Session{}, errs.ErrInvalidCredentials
		}
		return "", auth.Session{}, fmt.Errorf("find credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return "", auth.Session{}, errs.ErrInvalidCredentials
	}

	sess := auth.Session{
		UserID:   creds.ID,
		Username: creds.Username,
		Role:     creds.Role,
	}
	token, err := s.sessions.Create(ctx, sess)
	if err != nil {
		return "", auth.Session{}, fmt.Errorf("create session: %w", err)
	}
	return token, sess, nil
}

// Logout invalidates the session token. Idempotent.
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

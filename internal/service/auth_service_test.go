package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/auth"
	errs "github.com/l23212212/Sistema-Expedientes-Clinicos/internal/errors"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindCredentials(ctx context.Context, username string) (*repository.UserCredentials, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserCredentials), args.Error(1)
}

func (m *MockUserRepository) FindWithRole(ctx context.Context, id uint) (*model.UserWithRole, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWithRole), args.Error(1)
}

func (m *MockUserRepository) ListWithRole(ctx context.Context) ([]model.UserWithRole, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserWithRole), args.Error(1)
}

func (m *MockUserRepository) UpdateUsernameAndCode(ctx context.Context, id uint, username string, accessCodeID uint) (int64, error) {
	args := m.Called(ctx, id, username, accessCodeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAccessCodeRepository is a mock implementation of repository.AccessCodeRepository.
type MockAccessCodeRepository struct {
	mock.Mock
}

func (m *MockAccessCodeRepository) FindActiveByCode(ctx context.Context, code string) (*model.AccessCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessCode), args.Error(1)
}

func (m *MockAccessCodeRepository) FindActiveByRole(ctx context.Context, role string) (*model.AccessCode, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessCode), args.Error(1)
}

// MockSessionStore is a mock implementation of auth.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, sess auth.Session) (string, error) {
	args := m.Called(ctx, sess)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (*auth.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		code          string
		setupMocks    func(*MockUserRepository, *MockAccessCodeRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "dr.garcia",
			password: "secreta123",
			code:     "MEDICO-0001",
			setupMocks: func(users *MockUserRepository, codes *MockAccessCodeRepository) {
				codes.On("FindActiveByCode", mock.Anything, "MEDICO-0001").
					Return(&model.AccessCode{ID: 2, Code: "MEDICO-0001", Role: model.RoleMedico, Active: true}, nil)
				users.On("FindByUsername", mock.Anything, "dr.garcia").Return(nil, gorm.ErrRecordNotFound)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "invalid access code",
			username: "dr.garcia",
			password: "secreta123",
			code:     "nope",
			setupMocks: func(users *MockUserRepository, codes *MockAccessCodeRepository) {
				codes.On("FindActiveByCode", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errs.ErrInvalidAccessCode,
		},
		{
			name:     "duplicate username",
			username: "dr.garcia",
			password: "secreta123",
			code:     "MEDICO-0001",
			setupMocks: func(users *MockUserRepository, codes *MockAccessCodeRepository) {
				codes.On("FindActiveByCode", mock.Anything, "MEDICO-0001").
					Return(&model.AccessCode{ID: 2, Role: model.RoleMedico, Active: true}, nil)
				users.On("FindByUsername", mock.Anything, "dr.garcia").
					Return(&model.User{ID: 7, Username: "dr.garcia"}, nil)
			},
			expectedError: errs.ErrDuplicateUser,
		},
		{
			name:          "missing fields",
			username:      "",
			password:      "secreta123",
			code:          "MEDICO-0001",
			setupMocks:    func(users *MockUserRepository, codes *MockAccessCodeRepository) {},
			expectedError: nil, // asserted as ValidationError below
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			codes := new(MockAccessCodeRepository)
			sessions := new(MockSessionStore)
			tt.setupMocks(users, codes)

			svc := NewAuthService(users, codes, sessions)
			user, err := svc.Register(context.Background(), tt.username, tt.password, tt.code)

			if tt.name == "missing fields" {
				assert.True(t, errs.IsValidation(err))
				assert.Nil(t, user)
			} else if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, uint(2), user.AccessCodeID)
				// The password must never be stored in clear form.
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}
			users.AssertExpectations(t)
			codes.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockAccessCodeRepository)
	sessions := new(MockSessionStore)

	codes.On("FindActiveByCode", mock.Anything, "ADMIN-0001").
		Return(&model.AccessCode{ID: 1, Code: "ADMIN-0001", Role: model.RoleAdmin, Active: true}, nil)
	users.On("FindByUsername", mock.Anything, "ana").Return(nil, gorm.ErrRecordNotFound)

	var storedHash string
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			storedHash = args.Get(1).(*model.User).PasswordHash
		}).
		Return(nil)

	svc := NewAuthService(users, codes, sessions)
	_, err := svc.Register(context.Background(), "ana", "clave-segura", "ADMIN-0001")
	require.NoError(t, err)

	users.On("FindCredentials", mock.Anything, "ana").
		Return(&repository.UserCredentials{ID: 3, Username: "ana", PasswordHash: storedHash, Role: model.RoleAdmin}, nil)
	sessions.On("Create", mock.Anything, auth.Session{UserID: 3, Username: "ana", Role: model.RoleAdmin}).
		Return("token-123", nil)

	token, sess, err := svc.Login(context.Background(), "ana", "clave-segura")
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)
	// The session carries the role tied to the access code used at registration.
	assert.Equal(t, model.RoleAdmin, sess.Role)
}

func TestAuthService_LoginTrimsUsername(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcryptCost)
	require.NoError(t, err)

	users := new(MockUserRepository)
	codes := new(MockAccessCodeRepository)
	sessions := new(MockSessionStore)

	// Registration stores the trimmed name, so a padded login form value
	// must be looked up trimmed as well.
	users.On("FindCredentials", mock.Anything, "ana").
		Return(&repository.UserCredentials{ID: 3, Username: "ana", PasswordHash: string(hash), Role: model.RoleMedico}, nil)
	sessions.On("Create", mock.Anything, auth.Session{UserID: 3, Username: "ana", Role: model.RoleMedico}).
		Return("token-456", nil)

	svc := NewAuthService(users, codes, sessions)
	token, _, err := svc.Login(context.Background(), "  ana  ", "clave-segura")
	require.NoError(t, err)
	assert.Equal(t, "token-456", token)
	users.AssertExpectations(t)
}

func TestAuthService_LoginFailures(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correcta"), bcryptCost)
	require.NoError(t, err)

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(*MockUserRepository)
	}{
		{
			name:     "wrong password",
			username: "ana",
			password: "incorrecta",
			setupMocks: func(users *MockUserRepository) {
				users.On("FindCredentials", mock.Anything, "ana").
					Return(&repository.UserCredentials{ID: 3, Username: "ana", PasswordHash: string(hash), Role: model.RoleMedico}, nil)
			},
		},
		{
			name:     "unknown user",
			username: "nadie",
			password: "cualquiera",
			setupMocks: func(users *MockUserRepository) {
				users.On("FindCredentials", mock.Anything, "nadie").Return(nil, gorm.ErrRecordNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			codes := new(MockAccessCodeRepository)
			sessions := new(MockSessionStore)
			tt.setupMocks(users)

			svc := NewAuthService(users, codes, sessions)
			token, _, err := svc.Login(context.Background(), tt.username, tt.password)

			// Both failure modes collapse into the same error so responses
			// cannot be used to enumerate usernames.
			assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
			assert.Empty(t, token)
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockAccessCodeRepository)
	sessions := new(MockSessionStore)
	sessions.On("Delete", mock.Anything, "token-123").Return(nil)

	svc := NewAuthService(users, codes, sessions)
	assert.NoError(t, svc.Logout(context.Background(), "token-123"))
	sessions.AssertExpectations(t)
}

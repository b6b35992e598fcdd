package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	errs "github.com/l23212212/Sistema-Expedientes-Clinicos/internal/errors"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
)

// MockPatientRepository is a mock implementation of repository.PatientRepository.
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) CreateBatch(ctx context.Context, patients []*model.Patient) error {
	args := m.Called(ctx, patients)
	return args.Error(0)
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uint) (*model.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

func (m *MockPatientRepository) List(ctx context.Context) ([]model.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Patient), args.Error(1)
}

func (m *MockPatientRepository) ListSortedByName(ctx context.Context) ([]model.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Patient), args.Error(1)
}

func (m *MockPatientRepository) SearchByName(ctx context.Context, substring string) ([]model.Patient, error) {
	args := m.Called(ctx, substring)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Patient), args.Error(1)
}

func (m *MockPatientRepository) SearchSummaries(ctx context.Context, substring string, limit int) ([]model.PatientSummary, error) {
	args := m.Called(ctx, substring, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PatientSummary), args.Error(1)
}

func (m *MockPatientRepository) Update(ctx context.Context, patient *model.Patient) (int64, error) {
	args := m.Called(ctx, patient)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestPatientService_CreateNormalizesOptionals(t *testing.T) {
	repo := new(MockPatientRepository)

	var created *model.Patient
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Patient")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Patient)
		}).
		Return(nil)

	svc := NewPatientService(repo)
	_, err := svc.Create(context.Background(), PatientInput{
		FullName:  "Ana López",
		BirthDate: "45000",
		Weight:    "",
		Height:    "1.65",
		BMI:       "",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	// Empty numeric input is absent, never zero.
	assert.Nil(t, created.Weight)
	assert.Nil(t, created.BMI)
	require.NotNil(t, created.Height)
	assert.Equal(t, 1.65, *created.Height)
	assert.Equal(t, "2023-03-15", created.BirthDate)
	repo.AssertExpectations(t)
}

func TestPatientService_CreateRequiresName(t *testing.T) {
	repo := new(MockPatientRepository)
	svc := NewPatientService(repo)

	_, err := svc.Create(context.Background(), PatientInput{FullName: "  "})
	assert.True(t, errs.IsValidation(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPatientService_CreateRejectsBadNumbers(t *testing.T) {
	repo := new(MockPatientRepository)
	svc := NewPatientService(repo)

	_, err := svc.Create(context.Background(), PatientInput{FullName: "Ana", Weight: "mucho"})
	assert.True(t, errs.IsValidation(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPatientService_SearchFailsClosed(t *testing.T) {
	repo := new(MockPatientRepository)
	svc := NewPatientService(repo)

	for _, q := range []string{"", "a", " a "} {
		patients, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, patients)
	}
	// The store is never touched for short queries.
	repo.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything)
}

func TestPatientService_SearchDelegates(t *testing.T) {
	repo := new(MockPatientRepository)
	repo.On("SearchByName", mock.Anything, "ana").
		Return([]model.Patient{{ID: 1, FullName: "Ana López"}}, nil)

	svc := NewPatientService(repo)
	patients, err := svc.Search(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Ana López", patients[0].FullName)
	repo.AssertExpectations(t)
}

func TestPatientService_TypeaheadCapsAtTwenty(t *testing.T) {
	repo := new(MockPatientRepository)
	repo.On("SearchSummaries", mock.Anything, "lo", 20).
		Return([]model.PatientSummary{{ID: 1, FullName: "Ana López"}}, nil)

	svc := NewPatientService(repo)
	summaries, err := svc.Typeahead(context.Background(), "lo")
	require.NoError(t, err)
	assert.Len(t, summaries, 1)

	short, err := svc.Typeahead(context.Background(), "l")
	require.NoError(t, err)
	assert.Empty(t, short)
	repo.AssertExpectations(t)
}

func TestPatientService_UpdateMissingID(t *testing.T) {
	repo := new(MockPatientRepository)
	repo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewPatientService(repo)
	err := svc.Update(context.Background(), 99, PatientInput{FullName: "Ana"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPatientService_DeleteIsIdempotent(t *testing.T) {
	repo := new(MockPatientRepository)
	// The repository reports no error for a missing id; neither does the service.
	repo.On("Delete", mock.Anything, uint(99)).Return(nil).Twice()

	svc := NewPatientService(repo)
	assert.NoError(t, svc.Delete(context.Background(), 99))
	assert.NoError(t, svc.Delete(context.Background(), 99))
	repo.AssertExpectations(t)
}

func TestPatientService_BulkImport(t *testing.T) {
	t.Run("all rows valid inserts the whole batch", func(t *testing.T) {
		repo := new(MockPatientRepository)
		repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(patients []*model.Patient) bool {
			return len(patients) == 2 &&
				patients[0].BirthDate == "2023-03-15" &&
				patients[1].Weight == nil
		})).Return(nil)

		svc := NewPatientService(repo)
		count, err := svc.BulkImport(context.Background(), []PatientInput{
			{FullName: "Ana López", BirthDate: "45000", Weight: "60.5"},
			{FullName: "Luis Mora", BirthDate: "1985-02-10", Weight: ""},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		repo.AssertExpectations(t)
	})

	t.Run("one invalid row rejects the whole batch", func(t *testing.T) {
		repo := new(MockPatientRepository)

		svc := NewPatientService(repo)
		count, err := svc.BulkImport(context.Background(), []PatientInput{
			{FullName: "Ana López"},
			{FullName: "Luis Mora"},
			{FullName: ""}, // spreadsheet row 4
		})
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "4")
		assert.Zero(t, count)
		repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		repo := new(MockPatientRepository)

		svc := NewPatientService(repo)
		_, err := svc.BulkImport(context.Background(), nil)
		assert.True(t, errs.IsValidation(err))
	})
}

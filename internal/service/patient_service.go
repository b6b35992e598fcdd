package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	errs "github.com/l23212212/Sistema-Expedientes-Clinicos/internal/errors"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/repository"
)

// Queries shorter than this return nothing rather than matching every row.
const minSearchLength = 2

// typeaheadLimit caps the autocomplete result set.
const typeaheadLimit = 20

// PatientInput carries raw form or spreadsheet values for one patient. All
// fields arrive as strings; normalization into typed values happens once,
// here at the service boundary.
type PatientInput struct {
	FullName             string
	BirthDate            string
	Phone                string
	PriorConditions      string
	FamilyHistory        string
	PrescribedMedication string
	Weight               string
	Height               string
	BMI                  string
	EmergencyContact     string
}

// PatientService handles the patient record lifecycle.
type PatientService interface {
	Create(ctx context.Context, input PatientInput) (*model.Patient, error)
	Get(ctx context.Context, id uint) (*model.Patient, error)
	List(ctx context.Context) ([]model.Patient, error)
	ListSorted(ctx context.Context) ([]model.Patient, error)
	Search(ctx context.Context, query string) ([]model.Patient, error)
	Typeahead(ctx context.Context, query string) ([]model.PatientSummary, error)
	Update(ctx context.Context, id uint, input PatientInput) error
	Delete(ctx context.Context, id uint) error
	BulkImport(ctx context.Context, rows []PatientInput) (int, error)
}

type patientService struct {
	patientRepo repository.PatientRepository
}

// NewPatientService creates a new patient service.
func NewPatientService(patientRepo repository.PatientRepository) PatientService {
	return &patientService{patientRepo: patientRepo}
}

// Create validates and persists a new record.
func (s *patientService) Create(ctx context.Context, input PatientInput) (*model.Patient, error) {
	patient, err := normalizePatient(input)
	if err != nil {
		return nil, err
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return patient, nil
}

// Get returns one record.
func (s *patientService) Get(ctx context.Context, id uint) (*model.Patient, error) {
	patient, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return patient, nil
}

// List returns all records in store-native order.
func (s *patientService) List(ctx context.Context) ([]model.Patient, error) {
	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// ListSorted returns all records ordered by name.
func (s *patientService) ListSorted(ctx context.Context) ([]model.Patient, error) {
	patients, err := s.patientRepo.ListSortedByName(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// Search returns substring matches on the full name. Queries under two
// characters fail closed with an empty result.
func (s *patientService) Search(ctx context.Context, query string) ([]model.Patient, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return []model.Patient{}, nil
	}
	patients, err := s.patientRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return patients, nil
}

// Typeahead is Search with the slim projection and a row cap.
func (s *patientService) Typeahead(ctx context.Context, query string) ([]model.PatientSummary, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return []model.PatientSummary{}, nil
	}
	summaries, err := s.patientRepo.SearchSummaries(ctx, query, typeaheadLimit)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return summaries, nil
}

// Update replaces every mutable field after the same normalization as Create.
func (s *patientService) Update(ctx context.Context, id uint, input PatientInput) error {
	patient, err := normalizePatient(input)
	if err != nil {
		return err
	}

	// Existence check first: an UPDATE that changes nothing also reports
	// zero affected rows.
	if _, err := s.patientRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("find patient: %w", err)
	}

	patient.ID = id
	if _, err := s.patientRepo.Update(ctx, patient); err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	return nil
}

// Delete hard-deletes a record. Deleting a missing id is not an error.
func (s *patientService) Delete(ctx context.Context, id uint) error {
	if err := s.patientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return nil
}

// BulkImport persists all rows as one atomic batch. Every row is validated
// up front; any invalid row rejects the whole import, naming the offending
// spreadsheet rows (1-based, counting the header as row 1).
func (s *patientService) BulkImport(ctx context.Context, rows []PatientInput) (int, error) {
	if len(rows) == 0 {
		return 0, errs.NewValidation("El archivo no contiene filas de datos")
	}

	patients := make([]*model.Patient, 0, len(rows))
	var bad []int
	for i, row := range rows {
		patient, err := normalizePatient(row)
		if err != nil {
			bad = append(bad, i+2)
			continue
		}
		patients = append(patients, patient)
	}
	if len(bad) > 0 {
		return 0, errs.NewValidation("Filas con datos inválidos: %v", bad)
	}

	if err := s.patientRepo.CreateBatch(ctx, patients); err != nil {
		return 0, fmt.Errorf("import patients: %w", err)
	}
	return len(patients), nil
}

// normalizePatient converts raw string input into a typed record: required
// name, serial birth dates to ISO, empty optional numerics to nil.
func normalizePatient(input PatientInput) (*model.Patient, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, errs.NewValidation("El nombre completo es obligatorio")
	}

	weight, err := parseOptionalFloat(input.Weight)
	if err != nil {
		return nil, errs.NewValidation("Peso inválido: %q", input.Weight)
	}
	height, err := parseOptionalFloat(input.Height)
	if err != nil {
		return nil, errs.NewValidation("Talla inválida: %q", input.Height)
	}
	bmi, err := parseOptionalFloat(input.BMI)
	if err != nil {
		return nil, errs.NewValidation("IMC inválido: %q", input.BMI)
	}

	return &model.Patient{
		FullName:             fullName,
		BirthDate:            NormalizeBirthDate(input.BirthDate),
		Phone:                strings.TrimSpace(input.Phone),
		PriorConditions:      strings.TrimSpace(input.PriorConditions),
		FamilyHistory:        strings.TrimSpace(input.FamilyHistory),
		PrescribedMedication: strings.TrimSpace(input.PrescribedMedication),
		Weight:               weight,
		Height:               height,
		BMI:                  bmi,
		EmergencyContact:     strings.TrimSpace(input.EmergencyContact),
	}, nil
}

// parseOptionalFloat maps "" to absent, never to zero.
func parseOptionalFloat(value string) (*float64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

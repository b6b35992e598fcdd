package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
)

// PatientRepository defines patient persistence operations. Name search
// matching is case-insensitive per the store collation (utf8mb4 _ci).
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	CreateBatch(ctx context.Context, patients []*model.Patient) error
	FindByID(ctx context.Context, id uint) (*model.Patient, error)
	List(ctx context.Context) ([]model.Patient, error)
	ListSortedByName(ctx context.Context) ([]model.Patient, error)
	SearchByName(ctx context.Context, substring string) ([]model.Patient, error)
	SearchSummaries(ctx context.Context, substring string, limit int) ([]model.PatientSummary, error)
	Update(ctx context.Context, patient *model.Patient) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository.
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

// Create inserts a new patient row.
func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

// CreateBatch inserts all rows inside one transaction: either every row is
// persisted or none are.
func (r *patientRepository) CreateBatch(ctx context.Context, patients []*model.Patient) error {
	if len(patients) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&patients).Error
	})
}

// FindByID finds a patient by ID.
func (r *patientRepository) FindByID(ctx context.Context, id uint) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.WithContext(ctx).First(&patient, id).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

// List returns all patients in store-native order.
func (r *patientRepository) List(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	if err := r.db.WithContext(ctx).Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// ListSortedByName returns all patients ordered by full name ascending.
func (r *patientRepository) ListSortedByName(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	if err := r.db.WithContext(ctx).
		Order("nombre_completo ASC").
		Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// SearchByName returns patients whose name contains the substring.
func (r *patientRepository) SearchByName(ctx context.Context, substring string) ([]model.Patient, error) {
	var patients []model.Patient
	if err := r.db.WithContext(ctx).
		Where("nombre_completo LIKE ?", "%"+substring+"%").
		Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// SearchSummaries returns the typeahead projection, capped at limit rows.
func (r *patientRepository) SearchSummaries(ctx context.Context, substring string, limit int) ([]model.PatientSummary, error) {
	// Non-nil so an empty result serializes as [] rather than null.
	summaries := []model.PatientSummary{}
	if err := r.db.WithContext(ctx).
		Table("pacientes").
		Select("id, nombre_completo, no_telefono").
		Where("nombre_completo LIKE ?", "%"+substring+"%").
		Limit(limit).
		Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// Update replaces every mutable field of the row, writing NULL for nil
// optional numerics. Returns the number of affected rows.
func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Patient{}).
		Where("id = ?", patient.ID).
		Updates(map[string]interface{}{
			"nombre_completo":         patient.FullName,
			"fecha_de_nacimiento":     patient.BirthDate,
			"no_telefono":             patient.Phone,
			"enfermedades_previas":    patient.PriorConditions,
			"antecedentes_familiares": patient.FamilyHistory,
			"medicamento_prescrito":   patient.PrescribedMedication,
			"peso":                    patient.Weight,
			"talla":                   patient.Height,
			"imc":                     patient.BMI,
			"contacto_de_emergencia":  patient.EmergencyContact,
		})
	return res.RowsAffected, res.Error
}

// Delete hard-deletes a patient. Deleting a missing id is a no-op.
func (r *patientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Patient{}, id).Error
}

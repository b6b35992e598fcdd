package model

import "time"

// Patient is a clinic record (table pacientes). Weight, height and BMI are
// optional: nil means the value was never captured and must stay NULL in the
// store, never a numeric zero.
type Patient struct {
	ID                   uint     `json:"id" gorm:"primaryKey"`
	FullName             string   `json:"nombre_completo" gorm:"column:nombre_completo;size:255;not null;index"`
	BirthDate            string   `json:"fecha_de_nacimiento" gorm:"column:fecha_de_nacimiento;size:20"`
	Phone                string   `json:"no_telefono" gorm:"column:no_telefono;size:30"`
	PriorConditions      string   `json:"enfermedades_previas" gorm:"column:enfermedades_previas;size:500"`
	FamilyHistory        string   `json:"antecedentes_familiares" gorm:"column:antecedentes_familiares;size:500"`
	PrescribedMedication string   `json:"medicamento_prescrito" gorm:"column:medicamento_prescrito;size:500"`
	Weight               *float64 `json:"peso" gorm:"column:peso"`
	Height               *float64 `json:"talla" gorm:"column:talla"`
	BMI                  *float64 `json:"imc" gorm:"column:imc"`
	EmergencyContact     string   `json:"contacto_de_emergencia" gorm:"column:contacto_de_emergencia;size:255"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName overrides the gorm default to match the existing schema.
func (Patient) TableName() string {
	return "pacientes"
}

// PatientSummary is the slim projection served to the typeahead endpoint.
type PatientSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"nombre_completo" gorm:"column:nombre_completo"`
	Phone    string `json:"no_telefono" gorm:"column:no_telefono"`
}

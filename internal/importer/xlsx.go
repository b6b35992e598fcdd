package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/service"
)

// Spreadsheet column headers, matching the pacientes column names.
const (
	colFullName             = "nombre_completo"
	colBirthDate            = "fecha_de_nacimiento"
	colPhone                = "no_telefono"
	colPriorConditions      = "enfermedades_previas"
	colFamilyHistory        = "antecedentes_familiares"
	colPrescribedMedication = "medicamento_prescrito"
	colWeight               = "peso"
	colHeight               = "talla"
	colBMI                  = "imc"
	colEmergencyContact     = "contacto_de_emergencia"
)

// ParsePatients reads the first sheet of an xlsx file and turns each data
// row into a PatientInput. The first row must be the header; unknown columns
// are ignored and cells cut short by the row length become empty strings.
// Cell values arrive as display strings, so serial dates surface as numeric
// strings and are normalized downstream.
func ParsePatients(r io.Reader) ([]service.PatientInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet has no header row")
	}

	headerMap := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		headerMap[h] = i
	}

	cell := func(row []string, column string) string {
		idx, ok := headerMap[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	inputs := make([]service.PatientInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		inputs = append(inputs, service.PatientInput{
			FullName:             cell(row, colFullName),
			BirthDate:            cell(row, colBirthDate),
			Phone:                cell(row, colPhone),
			PriorConditions:      cell(row, colPriorConditions),
			FamilyHistory:        cell(row, colFamilyHistory),
			PrescribedMedication: cell(row, colPrescribedMedication),
			Weight:               cell(row, colWeight),
			Height:               cell(row, colHeight),
			BMI:                  cell(row, colBMI),
			EmergencyContact:     cell(row, colEmergencyContact),
		})
	}
	return inputs, nil
}

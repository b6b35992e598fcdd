package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/importer"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/model"
	"github.com/l23212212/Sistema-Expedientes-Clinicos/internal/service"
)

// PatientHandler handles the patient record screens, the search endpoints
// and the spreadsheet import.
type PatientHandler struct {
	patientService service.PatientService
	log            *zap.Logger
}

// NewPatientHandler creates a new patient handler.
func NewPatientHandler(patientService service.PatientService, log *zap.Logger) *PatientHandler {
	return &PatientHandler{patientService: patientService, log: log}
}

// Create persists a record entered through the front-page form. The form
// keeps the field names the original intake form used.
func (h *PatientHandler) Create(c echo.Context) error {
	input := service.PatientInput{
		FullName:             c.FormValue("name"),
		BirthDate:            c.FormValue("birth_date"),
		Phone:                c.FormValue("phone_number"),
		PriorConditions:      c.FormValue("previous_diseases"),
		FamilyHistory:        c.FormValue("family_history"),
		PrescribedMedication: c.FormValue("prescription_medication"),
		Weight:               c.FormValue("weight"),
		Height:               c.FormValue("size"),
		BMI:                  c.FormValue("imc"),
		EmergencyContact:     c.FormValue("emergency_contact"),
	}

	if _, err := h.patientService.Create(c.Request().Context(), input); err != nil {
		return renderError(c, h.log, err, "/")
	}
	return renderMessage(c, http.StatusOK, "Paciente guardado correctamente", "/")
}

// List renders all records in store order.
func (h *PatientHandler) List(c echo.Context) error {
	patients, err := h.patientService.List(c.Request().Context())
	if err != nil {
		return renderError(c, h.log, err, "/")
	}
	return c.Render(http.StatusOK, "patients.html", echo.Map{
		"Title":    "Pacientes Registrados",
		"Patients": patients,
	})
}

// ListSorted renders all records ordered by name.
func (h *PatientHandler) ListSorted(c echo.Context) error {
	patients, err := h.patientService.ListSorted(c.Request().Context())
	if err != nil {
		return renderError(c, h.log, err, "/")
	}
	return c.Render(http.StatusOK, "patients.html", echo.Map{
		"Title":    "Pacientes ordenados alfabéticamente",
		"Patients": patients,
	})
}

// SearchPage renders the search page with the typeahead field.
func (h *PatientHandler) SearchPage(c echo.Context) error {
	return c.Render(http.StatusOK, "busqueda.html", echo.Map{})
}

// Search renders the full-page search results. The name arrives as a query
// parameter on GET and as a form field on POST.
func (h *PatientHandler) Search(c echo.Context) error {
	name := c.FormValue("name")
	if name == "" {
		name = c.QueryParam("name")
	}
	if name == "" {
		return renderMessage(c, http.StatusOK, "Ingresa un nombre para buscar", "/busqueda.html")
	}

	patients, err := h.patientService.Search(c.Request().Context(), name)
	if err != nil {
		return renderError(c, h.log, err, "/busqueda.html")
	}
	return c.Render(http.StatusOK, "search_results.html", echo.Map{
		"Query":    name,
		"Patients": patients,
	})
}

// Typeahead serves the autocomplete endpoint. Short queries yield an empty
// list, and a store failure yields an empty list with a 500 so the widget
// degrades quietly.
func (h *PatientHandler) Typeahead(c echo.Context) error {
	summaries, err := h.patientService.Typeahead(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		h.log.Error("typeahead failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, []model.PatientSummary{})
	}
	if summaries == nil {
		// The widget iterates the response; null would break it.
		summaries = []model.PatientSummary{}
	}
	return c.JSON(http.StatusOK, summaries)
}

// ShowEdit renders the edit form for one record.
func (h *PatientHandler) ShowEdit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return renderError(c, h.log, err, "/pacientes")
	}

	patient, err := h.patientService.Get(c.Request().Context(), id)
	if err != nil {
		return renderError(c, h.log, err, "/pacientes")
	}
	return c.Render(http.StatusOK, "patient_form.html", echo.Map{"Patient": patient})
}

// Update replaces all fields of one record.
func (h *PatientHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return renderError(c, h.log, err, "/pacientes")
	}

	input := service.PatientInput{
		FullName:             c.FormValue("nombre_completo"),
		BirthDate:            c.FormValue("fecha_de_nacimiento"),
		Phone:                c.FormValue("no_telefono"),
		PriorConditions:      c.FormValue("enfermedades_previas"),
		FamilyHistory:        c.FormValue("antecedentes_familiares"),
		PrescribedMedication: c.FormValue("medicamento_prescrito"),
		Weight:               c.FormValue("peso"),
		Height:               c.FormValue("talla"),
		BMI:                  c.FormValue("imc"),
		EmergencyContact:     c.FormValue("contacto_de_emergencia"),
	}

	if err := h.patientService.Update(c.Request().Context(), id, input); err != nil {
		return renderError(c, h.log, err, "/pacientes")
	}
	return c.Redirect(http.StatusFound, "/pacientes")
}

// Delete removes a record. Repeating a delete is harmless.
func (h *PatientHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return renderError(c, h.log, err, "/pacientes")
	}

	if err := h.patientService.Delete(c.Request().Context(), id); err != nil {
		return renderError(c, h.log, err, "/pacientes")
	}
	return c.Redirect(http.StatusFound, "/pacientes")
}

// Import ingests an uploaded spreadsheet as one atomic batch.
func (h *PatientHandler) Import(c echo.Context) error {
	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		return renderMessage(c, http.StatusBadRequest, "No se subió ningún archivo", "/")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return renderMessage(c, http.StatusBadRequest, "Error al leer el archivo", "/")
	}
	defer file.Close()

	rows, err := importer.ParsePatients(file)
	if err != nil {
		h.log.Warn("spreadsheet parse failed", zap.Error(err))
		return renderMessage(c, http.StatusBadRequest, "Error al leer el archivo", "/")
	}

	count, err := h.patientService.BulkImport(c.Request().Context(), rows)
	if err != nil {
		return renderError(c, h.log, err, "/")
	}
	return renderMessage(c, http.StatusOK, fmt.Sprintf("Pacientes importados correctamente (%d)", count), "/")
}

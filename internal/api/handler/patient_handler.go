package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/api/response"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

type PatientHandler struct {
	service   ports.PatientService
	validator *validation.Validator
}

func NewPatientHandler(service ports.PatientService, v *validation.Validator) *PatientHandler {
	return &PatientHandler{service: service, validator: v}
}

// Create registers a patient and provisions their login.
//
// @Summary      Create a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.PatientInput  true  "Patient"
// @Success      201   {object}  response.SuccessBody{data=domain.Patient}
// @Failure      400   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Router       /api/patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	var in ports.PatientInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	in.PreferredLang = preferredLang(c, in.PreferredLang)

	p, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusCreated, domain.CodePatientCreated, p)
}

// List returns active patients.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.SuccessBody{data=[]domain.Patient}
// @Failure      403  {object}  response.ErrorBody
// @Router       /api/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodePatientsRetrieved, items)
}

// Get returns one active patient.
//
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  response.SuccessBody{data=domain.Patient}
// @Failure      400  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := h.validator.ID("id", id); err != nil {
		return err
	}
	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodePatientRetrieved, p)
}

// Update replaces a patient's details.
//
// @Summary      Edit a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Patient id"
// @Param        body  body      ports.PatientInput  true  "Patient"
// @Success      200   {object}  response.SuccessBody{data=domain.Patient}
// @Failure      400   {object}  response.ErrorBody
// @Failure      404   {object}  response.ErrorBody
// @Router       /api/patients/{id}/edit [put]
func (h *PatientHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if err := h.validator.ID("id", id); err != nil {
		return err
	}
	var in ports.PatientInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	p, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodePatientUpdated, p)
}

// Delete deactivates a patient.
//
// @Summary      Delete a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  response.SuccessBody{data=domain.Patient}
// @Failure      400  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/patients/{id}/delete [put]
func (h *PatientHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.validator.ID("id", id); err != nil {
		return err
	}
	p, err := h.service.Deactivate(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodePatientDeleted, p)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/api/response"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

type ProfessionalHandler struct {
	service   ports.ProfessionalService
	validator *validation.Validator
}

func NewProfessionalHandler(service ports.ProfessionalService, v *validation.Validator) *ProfessionalHandler {
	return &ProfessionalHandler{service: service, validator: v}
}

// Create registers a professional and provisions their login.
//
// @Summary      Create a professional
// @Tags         professionals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.ProfessionalInput  true  "Professional"
// @Success      201   {object}  response.SuccessBody{data=domain.Professional}
// @Failure      400   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Router       /api/professionals [post]
func (h *ProfessionalHandler) Create(c echo.Context) error {
	var in ports.ProfessionalInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	in.PreferredLang = preferredLang(c, in.PreferredLang)

	p, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusCreated, domain.CodeProfessionalCreated, p)
}

// List returns active professionals.
//
// @Summary      List professionals
// @Tags         professionals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.SuccessBody{data=[]domain.Professional}
// @Failure      403  {object}  response.ErrorBody
// @Router       /api/professionals [get]
func (h *ProfessionalHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeProfessionalsRetrieved, items)
}

// Get returns one active professional.
//
// @Summary      Get a professional
// @Tags         professionals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Professional id"
// @Success      200  {object}  response.SuccessBody{data=domain.Professional}
// @Failure      400  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/professionals/{id} [get]
func (h *ProfessionalHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := h.validator.ID("id", id); err != nil {
		return err
	}
	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeProfessionalRetrieved, p)
}

// Update replaces a professional's details.
//
// @Summary      Edit a professional
// @Tags         professionals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Professional id"
// @Param        body  body      ports.ProfessionalInput  true  "Professional"
// @Success      200   {object}  response.SuccessBody{data=domain.Professional}
// @Failure      400   {object}  response.ErrorBody
// @Failure      404   {object}  response.ErrorBody
// @Router       /api/professionals/{id}/edit [put]
func (h *ProfessionalHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if err := h.validator.ID("id", id); err != nil {
		return err
	}
	var in ports.ProfessionalInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	p, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeProfessionalUpdated, p)
}

// Delete toggles a professional between active and inactive.
//
// @Summary      Delete a professional
// @Tags         professionals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Professional id"
// @Success      200  {object}  response.SuccessBody{data=domain.Professional}
// @Failure      400  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/professionals/{id}/delete [put]
func (h *ProfessionalHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.validator.ID("id", id); err != nil {
		return err
	}
	p, err := h.service.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeProfessionalDeleted, p)
}

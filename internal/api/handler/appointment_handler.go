package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/api/response"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

// AppointmentHandler serves /api/appointment. Routes taking :id run behind
// middleware.AppointmentAccess, which has already checked the id and the
// caller's right to it.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Create books an appointment.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.CreateAppointmentInput  true  "Booking request"
// @Success      201   {object}  response.SuccessBody{data=domain.Appointment}
// @Failure      400   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Failure      404   {object}  response.ErrorBody
// @Failure      409   {object}  response.ErrorBody
// @Router       /api/appointment [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in ports.CreateAppointmentInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	in.PreferredLang = preferredLang(c, in.PreferredLang)

	appt, err := h.service.Create(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusCreated, domain.CodeAppointmentCreated, appt)
}

// List returns every appointment.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.SuccessBody{data=[]domain.Appointment}
// @Failure      401  {object}  response.ErrorBody
// @Router       /api/appointment [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeAppointmentsRetrieved, items)
}

// Get returns one appointment.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  response.SuccessBody{data=domain.Appointment}
// @Failure      400  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/appointment/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	appt, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeAppointmentRetrieved, appt)
}

// Cancel flags an appointment as cancelled.
//
// @Summary      Cancel an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  response.SuccessBody{data=domain.Appointment}
// @Failure      400  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/appointment/{id} [put]
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	appt, err := h.service.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeAppointmentCancelled, appt)
}

// Delete removes an appointment.
//
// @Summary      Delete an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  response.SuccessBody
// @Failure      400  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/appointment/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeAppointmentDeleted, nil)
}

// UpdateNotes sets the patient or professional notes.
//
// @Summary      Update appointment notes
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Appointment id"
// @Param        body  body      ports.UpdateNotesInput  true  "Notes"
// @Success      200   {object}  response.SuccessBody{data=domain.Appointment}
// @Failure      400   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Failure      404   {object}  response.ErrorBody
// @Router       /api/appointment/{id}/notes [patch]
func (h *AppointmentHandler) UpdateNotes(c echo.Context) error {
	var in ports.UpdateNotesInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	appt, err := h.service.UpdateNotes(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeNotesUpdated, appt)
}

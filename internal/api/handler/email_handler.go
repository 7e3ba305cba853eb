package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/api/response"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

type EmailHandler struct {
	service ports.EmailService
}

func NewEmailHandler(service ports.EmailService) *EmailHandler {
	return &EmailHandler{service: service}
}

type emailSentResponse struct {
	ID string `json:"id"`
}

// Send delivers a templated or raw email right away.
//
// @Summary      Send an email
// @Tags         email
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.SendEmailInput  true  "Template name and data, or subject with html/text"
// @Success      200   {object}  response.SuccessBody{data=emailSentResponse}
// @Failure      400   {object}  response.ErrorBody
// @Failure      413   {object}  response.ErrorBody
// @Failure      429   {object}  response.ErrorBody
// @Failure      500   {object}  response.ErrorBody
// @Router       /api/sendEmail [post]
func (h *EmailHandler) Send(c echo.Context) error {
	var in ports.SendEmailInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	in.Lang = preferredLang(c, in.Lang)

	id, err := h.service.Send(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeEmailSent, emailSentResponse{ID: id})
}

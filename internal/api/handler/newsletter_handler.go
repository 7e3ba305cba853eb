package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/api/response"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

type NewsletterHandler struct {
	service ports.NewsletterService
}

func NewNewsletterHandler(service ports.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

// Subscribe adds an address to the launch waitlist.
//
// @Summary      Join the newsletter waitlist
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        body  body      ports.NewsletterInput  true  "Email address"
// @Success      200   {object}  response.SuccessBody{data=domain.Subscriber}
// @Failure      400   {object}  response.ErrorBody
// @Failure      429   {object}  response.ErrorBody
// @Failure      500   {object}  response.ErrorBody
// @Router       /api/newsletter [post]
func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var in ports.NewsletterInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	sub, err := h.service.Subscribe(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeNewsletterSubscribed, sub)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/api/response"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

type signatureQuery struct {
	Filename string `query:"filename" json:"filename" validate:"omitempty,max=200"`
}

// Sign issues a presigned PUT URL for one upload.
//
// @Summary      Sign an upload
// @Tags         uploads
// @Produce      json
// @Security     BearerAuth
// @Param        filename  query     string  false  "Original file name, used for the extension"
// @Success      200       {object}  response.SuccessBody{data=ports.UploadTicket}
// @Failure      400       {object}  response.ErrorBody
// @Failure      401       {object}  response.ErrorBody
// @Failure      503       {object}  response.ErrorBody
// @Router       /api/signature [get]
func (h *UploadHandler) Sign(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var q signatureQuery
	if err := c.Bind(&q); err != nil {
		return err
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	ticket, err := h.service.Sign(c.Request().Context(), id, q.Filename)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeUploadSigned, ticket)
}

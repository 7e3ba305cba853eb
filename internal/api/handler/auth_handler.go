package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/api/response"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      ports.LoginInput  true  "Login credentials"
// @Success      200   {object}  response.SuccessBody{data=loginResponse}
// @Failure      400   {object}  response.ErrorBody
// @Failure      401   {object}  response.ErrorBody
// @Failure      429   {object}  response.ErrorBody
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var in ports.LoginInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeLoginSuccessful,
		loginResponse{Token: session.Token, User: session.Identity})
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.ChangePasswordInput  true  "Current and new password"
// @Success      200   {object}  response.SuccessBody
// @Failure      400   {object}  response.ErrorBody
// @Failure      401   {object}  response.ErrorBody
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var in ports.ChangePasswordInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.Request().Context(), id.UserID, in); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodePasswordChanged, nil)
}

// Logout is stateless: the client discards its token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.SuccessBody
// @Failure      401  {object}  response.ErrorBody
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return response.Success(c, http.StatusOK, domain.CodeLogoutSuccessful, nil)
}

// ListUsers returns every account without password hashes.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.SuccessBody{data=[]domain.User}
// @Failure      401  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Router       /api/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, domain.CodeUsersRetrieved, users)
}

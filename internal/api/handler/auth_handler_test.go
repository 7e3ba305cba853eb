package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, in ports.LoginInput) (*ports.Session, error) {
			if in.Email != "alice@clinic.test" || in.Password != "secret" {
				t.Fatalf("unexpected args: %+v", in)
			}
			return &ports.Session{
				Token:    "token123",
				Identity: domain.Identity{UserID: "u1", Email: in.Email, Role: domain.RoleAdmin},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"alice@clinic.test","password":"secret"}`), nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body["messageCode"] != domain.CodeLoginSuccessful {
		t.Errorf("unexpected code %v", body["messageCode"])
	}
	data := body["data"].(map[string]any)
	if data["token"] != "token123" {
		t.Errorf("expected token, got %v", data["token"])
	}
	user := data["user"].(map[string]any)
	if user["id"] != "u1" || user["role"] != domain.RoleAdmin || user["profile"] != nil {
		t.Errorf("unexpected user payload: %+v", user)
	}
	if v, ok := user["profileId"]; !ok || v != nil {
		t.Errorf("expected profileId key set to null for admins, got %v (present=%v)", v, ok)
	}
}

func TestAuthHandler_Login_PatientCarriesProfileID(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.Session, error) {
			return &ports.Session{
				Token:    "token123",
				Identity: domain.Identity{UserID: "u2", Role: domain.RolePatient, ProfileID: "p1"},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ana@clinic.test","password":"secret"}`), nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	user := decodeEnvelope(t, rec)["data"].(map[string]any)["user"].(map[string]any)
	if user["profileId"] != "p1" {
		t.Errorf("expected profileId p1, got %v", user["profileId"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@clinic.test","password":"bad"}`), nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.Session, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/auth/login", strings.NewReader("{"), nil)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_ChangePassword_UsesCaller(t *testing.T) {
	var gotUser string
	stub := &stubAuthService{
		changePasswordFn: func(_ context.Context, userID string, in ports.ChangePasswordInput) error {
			gotUser = userID
			if in.NewPassword != "newpass" {
				t.Fatalf("unexpected input %+v", in)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/change-password",
		strings.NewReader(`{"currentPassword":"old","newPassword":"newpass"}`),
		&domain.Identity{UserID: "u42", Role: domain.RolePatient})
	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotUser != "u42" {
		t.Errorf("expected caller id u42, got %q", gotUser)
	}
	if body := decodeEnvelope(t, rec); body["messageCode"] != domain.CodePasswordChanged {
		t.Errorf("unexpected code %v", body["messageCode"])
	}
}

func TestAuthHandler_ChangePassword_NoIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newContext(http.MethodPost, "/api/auth/change-password", strings.NewReader(`{}`), nil)
	if err := h.ChangePassword(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, rec := newContext(http.MethodPost, "/api/auth/logout", nil, &domain.Identity{UserID: "u1"})
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ListUsers_EmptyIsArray(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, rec := newContext(http.MethodGet, "/api/users", nil, &domain.Identity{Role: domain.RoleAdmin})
	if err := h.ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestAuthHandler_ListUsers_IncludesProfileID(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{users: []*domain.User{
		{ID: "u1", Email: "admin@clinic.test", Role: domain.RoleAdmin, IsActive: true, PasswordHash: "hash"},
		{ID: "u2", Email: "ana@clinic.test", Role: domain.RolePatient, IsActive: true, Profile: &domain.ProfileRef{Kind: domain.ProfilePatient, ID: "p1"}},
	}})
	c, rec := newContext(http.MethodGet, "/api/users", nil, &domain.Identity{Role: domain.RoleAdmin})
	if err := h.ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}

	data := decodeEnvelope(t, rec)["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("expected 2 users, got %d", len(data))
	}
	admin, patient := data[0].(map[string]any), data[1].(map[string]any)
	if v, ok := admin["profileId"]; !ok || v != nil {
		t.Errorf("expected null profileId for admin, got %v (present=%v)", v, ok)
	}
	if patient["profileId"] != "p1" || patient["isActive"] != true {
		t.Errorf("unexpected patient entry: %+v", patient)
	}
}

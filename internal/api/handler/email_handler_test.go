package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

// ----------------------------------------------------------------------------
// Email
// ----------------------------------------------------------------------------

func TestEmailHandler_Send(t *testing.T) {
	stub := &stubEmailService{id: "msg-1"}
	h := NewEmailHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/sendEmail",
		strings.NewReader(`{"to":"bob@clinic.test","template":"patient_welcome","data":{"firstName":"Bob"}}`),
		&domain.Identity{Role: domain.RoleAdmin})
	c.Request().Header.Set("Accept-Language", "en")
	if err := h.Send(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.got.Lang != "en" || stub.got.Data.FirstName != "Bob" {
		t.Errorf("unexpected input %+v", stub.got)
	}
	env := decodeEnvelope(t, rec)
	if env["data"].(map[string]any)["id"] != "msg-1" {
		t.Errorf("unexpected data %v", env["data"])
	}
}

func TestEmailHandler_Send_ErrorPropagates(t *testing.T) {
	stub := &stubEmailService{err: domain.ErrEmailTooLarge}
	h := NewEmailHandler(stub)
	c, _ := newContext(http.MethodPost, "/api/sendEmail", strings.NewReader(`{"to":"bob@clinic.test"}`),
		&domain.Identity{Role: domain.RoleAdmin})
	if err := h.Send(c); !errors.Is(err, domain.ErrEmailTooLarge) {
		t.Fatalf("expected ErrEmailTooLarge, got %v", err)
	}
}

// ----------------------------------------------------------------------------
// Upload
// ----------------------------------------------------------------------------

func TestUploadHandler_Sign(t *testing.T) {
	expires := time.Date(2030, 1, 1, 0, 15, 0, 0, time.UTC)
	stub := &stubUploadService{ticket: &ports.UploadTicket{URL: "https://s3/x", Key: "uploads/u1/a.png", ExpiresAt: expires}}
	h := NewUploadHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/signature?filename=photo.png", nil,
		&domain.Identity{UserID: "u1", Role: domain.RolePatient})
	if err := h.Sign(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.file != "photo.png" || stub.caller.UserID != "u1" {
		t.Errorf("unexpected call: file=%q caller=%+v", stub.file, stub.caller)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["key"] != "uploads/u1/a.png" || data["url"] != "https://s3/x" {
		t.Errorf("unexpected ticket %v", data)
	}
}

func TestUploadHandler_Sign_FilenameTooLong(t *testing.T) {
	h := NewUploadHandler(&stubUploadService{})
	c, _ := newContext(http.MethodGet, "/api/signature?filename="+strings.Repeat("a", 201), nil,
		&domain.Identity{UserID: "u1", Role: domain.RolePatient})

	var verrs validation.Errors
	if err := h.Sign(c); !errors.As(err, &verrs) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadHandler_Sign_StorageDisabled(t *testing.T) {
	h := NewUploadHandler(&stubUploadService{err: domain.ErrStorageDisabled})
	c, _ := newContext(http.MethodGet, "/api/signature", nil, &domain.Identity{UserID: "u1"})
	if err := h.Sign(c); !errors.Is(err, domain.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
}

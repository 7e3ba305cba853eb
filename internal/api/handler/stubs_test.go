package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/api/middleware"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

const (
	patientID      = "665f1c2e9b1e8a00000000a1"
	professionalID = "665f1c2e9b1e8a00000000b2"
	appointmentID  = "665f1c2e9b1e8a00000000c3"
)

// newContext builds a JSON request context, optionally authenticated.
func newContext(method, target string, body io.Reader, id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator(validation.New())
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		middleware.SetIdentity(c, *id)
	}
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return body
}

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

type stubAuthService struct {
	loginFn          func(ctx context.Context, in ports.LoginInput) (*ports.Session, error)
	changePasswordFn func(ctx context.Context, userID string, in ports.ChangePasswordInput) error
	users            []*domain.User
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Identity, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID string, in ports.ChangePasswordInput) error {
	return s.changePasswordFn(ctx, userID, in)
}

func (s *stubAuthService) ListUsers(context.Context) ([]*domain.User, error) {
	return s.users, nil
}

type stubAppointmentService struct {
	createFn func(ctx context.Context, caller domain.Identity, in ports.CreateAppointmentInput) (*domain.Appointment, error)
	items    []*domain.Appointment
	notesFn  func(ctx context.Context, id string, in ports.UpdateNotesInput) (*domain.Appointment, error)
	deleted  []string
}

func (s *stubAppointmentService) Create(ctx context.Context, caller domain.Identity, in ports.CreateAppointmentInput) (*domain.Appointment, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubAppointmentService) List(context.Context) ([]*domain.Appointment, error) {
	return s.items, nil
}

func (s *stubAppointmentService) Get(_ context.Context, id string) (*domain.Appointment, error) {
	for _, a := range s.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrAppointmentNotFound
}

func (s *stubAppointmentService) Cancel(ctx context.Context, id string) (*domain.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status.Cancelled = true
	return a, nil
}

func (s *stubAppointmentService) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubAppointmentService) UpdateNotes(ctx context.Context, id string, in ports.UpdateNotesInput) (*domain.Appointment, error) {
	return s.notesFn(ctx, id, in)
}

type stubPatientService struct {
	created *ports.PatientInput
	byID    map[string]*domain.Patient
}

func (s *stubPatientService) Create(_ context.Context, in ports.PatientInput) (*domain.Patient, error) {
	s.created = &in
	return &domain.Patient{ID: patientID, FirstName: in.FirstName, Email: in.Email, Active: true}, nil
}

func (s *stubPatientService) List(context.Context) ([]*domain.Patient, error) {
	return nil, nil
}

func (s *stubPatientService) Get(_ context.Context, id string) (*domain.Patient, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPatientNotFound
}

func (s *stubPatientService) Update(ctx context.Context, id string, _ ports.PatientInput) (*domain.Patient, error) {
	return s.Get(ctx, id)
}

func (s *stubPatientService) Deactivate(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Active = false
	return p, nil
}

type stubEmailService struct {
	got ports.SendEmailInput
	id  string
	err error
}

func (s *stubEmailService) Send(_ context.Context, in ports.SendEmailInput) (string, error) {
	s.got = in
	return s.id, s.err
}

type stubNewsletterService struct {
	got ports.NewsletterInput
	err error
}

func (s *stubNewsletterService) Subscribe(_ context.Context, in ports.NewsletterInput) (*domain.Subscriber, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Subscriber{Email: in.Email}, nil
}

type stubUploadService struct {
	ticket *ports.UploadTicket
	err    error
	caller domain.Identity
	file   string
}

func (s *stubUploadService) Sign(_ context.Context, caller domain.Identity, filename string) (*ports.UploadTicket, error) {
	s.caller, s.file = caller, filename
	return s.ticket, s.err
}

package ports

import (
	"context"
	"time"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

// Session is the result of a successful login.
type Session struct {
	Token    string
	Identity domain.Identity
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*Session, error)
	// Authenticate resolves a bearer token to an active identity. Every
	// failure is reported as domain.ErrInvalidToken.
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
	ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

type AppointmentService interface {
	Create(ctx context.Context, caller domain.Identity, in CreateAppointmentInput) (*domain.Appointment, error)
	List(ctx context.Context) ([]*domain.Appointment, error)
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	Cancel(ctx context.Context, id string) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	UpdateNotes(ctx context.Context, id string, in UpdateNotesInput) (*domain.Appointment, error)
}

type PatientService interface {
	Create(ctx context.Context, in PatientInput) (*domain.Patient, error)
	List(ctx context.Context) ([]*domain.Patient, error)
	Get(ctx context.Context, id string) (*domain.Patient, error)
	Update(ctx context.Context, id string, in PatientInput) (*domain.Patient, error)
	Deactivate(ctx context.Context, id string) (*domain.Patient, error)
}

type ProfessionalService interface {
	Create(ctx context.Context, in ProfessionalInput) (*domain.Professional, error)
	List(ctx context.Context) ([]*domain.Professional, error)
	Get(ctx context.Context, id string) (*domain.Professional, error)
	Update(ctx context.Context, id string, in ProfessionalInput) (*domain.Professional, error)
	ToggleActive(ctx context.Context, id string) (*domain.Professional, error)
}

// EmailService backs the manual send endpoint.
type EmailService interface {
	Send(ctx context.Context, in SendEmailInput) (string, error)
}

// NewsletterService backs the public waitlist signup.
type NewsletterService interface {
	Subscribe(ctx context.Context, in NewsletterInput) (*domain.Subscriber, error)
}

// UploadTicket lets a client upload one object straight to storage.
type UploadTicket struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UploadService interface {
	Sign(ctx context.Context, caller domain.Identity, filename string) (*UploadTicket, error)
}

package ports

import (
	"context"
	"time"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

// BookingLocker serialises bookings that touch the same keys. Release must be
// called once the guarded write has finished.
type BookingLocker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

// ProfileResolver loads the Patient or Professional a user links to.
type ProfileResolver interface {
	Resolve(ctx context.Context, ref domain.ProfileRef) (any, error)
}

// UserProvisioner creates the login account that backs a new profile.
type UserProvisioner interface {
	Provision(ctx context.Context, email, password, role string, profile *domain.ProfileRef) (*domain.User, error)
}

// Email templates.
const (
	TemplatePatientWelcome      = "patient_welcome"
	TemplateProfessionalWelcome = "professional_welcome"
	TemplateAppointmentBooked   = "appointment_booked"
)

// TemplateData feeds every template; each uses only the fields it needs.
type TemplateData struct {
	FirstName        string    `json:"firstName,omitempty"`
	PatientName      string    `json:"patientName,omitempty"`
	ProfessionalName string    `json:"professionalName,omitempty"`
	AppointmentID    string    `json:"appointmentId,omitempty"`
	Start            time.Time `json:"start,omitempty"`
	End              time.Time `json:"end,omitempty"`
	Location         string    `json:"location,omitempty"`
	PortalURL        string    `json:"portalUrl,omitempty"`
}

// EmailJob is one templated email waiting to be sent. It is JSON-encoded
// when it travels through a broker.
type EmailJob struct {
	Template string       `json:"template"`
	To       string       `json:"to"`
	Lang     string       `json:"lang"`
	Data     TemplateData `json:"data"`
}

type EmailAttachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType,omitempty"`
	Content     []byte `json:"content"`
}

// EmailMessage is a fully rendered email.
type EmailMessage struct {
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html,omitempty"`
	Text        string            `json:"text,omitempty"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
}

// Mailer sends email. Both methods return the provider's message id.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
	SendTemplate(ctx context.Context, job EmailJob) (string, error)
}

// Outbox accepts email jobs for delivery outside the request path.
type Outbox interface {
	Publish(ctx context.Context, job EmailJob) error
}

// Notifier schedules the emails that follow state changes. Implementations
// absorb every failure.
type Notifier interface {
	PatientWelcome(ctx context.Context, p *domain.Patient, lang string)
	ProfessionalWelcome(ctx context.Context, p *domain.Professional, lang string)
	AppointmentBooked(ctx context.Context, a *domain.Appointment, patient *domain.Patient, professional *domain.Professional, lang string)
}

// UploadSigner issues a URL a client can PUT an object to directly.
type UploadSigner interface {
	PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error)
}

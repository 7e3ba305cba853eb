package ports

import (
	"context"
	"time"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

// UserRepository persists credential holders.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns active accounts only.
	List(ctx context.Context) ([]*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PatientRepository persists patients. Exists checks a unique field
// ("email", "phone" or "dni") against every other patient, skipping excludeID.
type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	FindByID(ctx context.Context, id string) (*domain.Patient, error)
	ListActive(ctx context.Context) ([]*domain.Patient, error)
	Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	SetUserID(ctx context.Context, id, userID string) error
	SetActive(ctx context.Context, id string, active bool) (*domain.Patient, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, field, value, excludeID string) (bool, error)
}

// ProfessionalRepository persists professionals. Exists works as for patients
// over "email" and "dni".
type ProfessionalRepository interface {
	Create(ctx context.Context, p *domain.Professional) (*domain.Professional, error)
	FindByID(ctx context.Context, id string) (*domain.Professional, error)
	ListActive(ctx context.Context) ([]*domain.Professional, error)
	Update(ctx context.Context, p *domain.Professional) (*domain.Professional, error)
	SetUserID(ctx context.Context, id, userID string) error
	SetActive(ctx context.Context, id string, active bool) (*domain.Professional, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, field, value, excludeID string) (bool, error)
}

// AppointmentRepository persists appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context) ([]*domain.Appointment, error)
	// FindOverlapping returns a live appointment of either the professional or
	// the patient intersecting [start, end), or nil when the slot is free.
	FindOverlapping(ctx context.Context, professionalID, patientID string, start, end time.Time) (*domain.Appointment, error)
	// Cancel sets the cancelled flag once; an already cancelled appointment is
	// returned unchanged.
	Cancel(ctx context.Context, id string, at time.Time) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
	// UpdateNotes sets only the non-nil fields.
	UpdateNotes(ctx context.Context, id string, notes, professionalNotes *string) (*domain.Appointment, error)
}

// WaitlistRepository stores newsletter signups. Add reports false when the
// address was already on the list.
type WaitlistRepository interface {
	Add(ctx context.Context, s *domain.Subscriber) (bool, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
	"github.com/ironhealth/clinic-api/internal/pkg/metrics"
)

// AppointmentService books, reads, cancels, deletes and annotates appointments.
type AppointmentService struct {
	appointments  ports.AppointmentRepository
	patients      ports.PatientRepository
	professionals ports.ProfessionalRepository
	locker        ports.BookingLocker
	notifier      ports.Notifier
	validator     *validation.Validator
	log           zerolog.Logger
	now           func() time.Time
}

func NewAppointmentService(
	appointments ports.AppointmentRepository,
	patients ports.PatientRepository,
	professionals ports.ProfessionalRepository,
	locker ports.BookingLocker,
	notifier ports.Notifier,
	validator *validation.Validator,
	log zerolog.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments:  appointments,
		patients:      patients,
		professionals: professionals,
		locker:        locker,
		notifier:      notifier,
		validator:     validator,
		log:           log,
		now:           time.Now,
	}
}

// Create books a new appointment. The overlap query and the insert run while
// both the professional and the patient are locked, so two requests for the
// same party cannot both pass the check.
func (s *AppointmentService) Create(ctx context.Context, caller domain.Identity, in ports.CreateAppointmentInput) (*domain.Appointment, error) {
	in.Normalize()
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}
	if caller.Role == domain.RolePatient && caller.ProfileID != in.PatientID {
		return nil, domain.ErrForbidden
	}

	loc := s.validator.Location()
	start, _ := validation.ParseDate(in.StartDate, loc)
	end, _ := validation.ParseDate(in.EndDate, loc)

	patient, err := s.patients.FindByID(ctx, in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	if !patient.Active {
		return nil, domain.ErrPatientNotFound
	}
	professional, err := s.professionals.FindByID(ctx, in.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	if !professional.Active {
		return nil, domain.ErrProfessionalNotFound
	}

	release, err := s.locker.Acquire(ctx,
		bookingLockKey(domain.PartyProfessional, in.ProfessionalID),
		bookingLockKey(domain.PartyPatient, in.PatientID),
	)
	if err != nil {
		if errors.Is(err, domain.ErrBookingInProgress) {
			metrics.AppointmentConflictsTotal.WithLabelValues("lock").Inc()
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	defer release()

	existing, err := s.appointments.FindOverlapping(ctx, in.ProfessionalID, in.PatientID, start, end)
	if err != nil {
		return nil, fmt.Errorf("create appointment: overlap check: %w", err)
	}
	if existing != nil {
		party := domain.PartyPatient
		if existing.ProfessionalID == in.ProfessionalID {
			party = domain.PartyProfessional
		}
		metrics.AppointmentConflictsTotal.WithLabelValues(string(party)).Inc()
		return nil, &domain.ConflictError{Party: party, AppointmentID: existing.ID}
	}

	now := s.now().UTC()
	created, err := s.appointments.Create(ctx, &domain.Appointment{
		ProfessionalID: in.ProfessionalID,
		PatientID:      in.PatientID,
		StartDate:      start.UTC(),
		EndDate:        end.UTC(),
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	metrics.AppointmentsCreatedTotal.Inc()
	s.log.Info().
		Str("appointment_id", created.ID).
		Str("professional_id", created.ProfessionalID).
		Str("patient_id", created.PatientID).
		Msg("appointment booked")

	s.notifier.AppointmentBooked(ctx, created, patient, professional, domain.PickLanguage(in.PreferredLang, ""))
	return created, nil
}

// List returns every appointment regardless of the caller's role.
func (s *AppointmentService) List(ctx context.Context) ([]*domain.Appointment, error) {
	items, err := s.appointments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if items == nil {
		items = []*domain.Appointment{}
	}
	return items, nil
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.appointments.FindByID(ctx, id)
}

// Cancel flags the appointment as cancelled. Repeating it is a no-op.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (*domain.Appointment, error) {
	a, err := s.appointments.Cancel(ctx, id, s.now().UTC())
	if err != nil {
		return nil, err
	}
	metrics.AppointmentsCancelledTotal.Inc()
	s.log.Info().Str("appointment_id", a.ID).Msg("appointment cancelled")
	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	metrics.AppointmentsDeletedTotal.Inc()
	s.log.Info().Str("appointment_id", id).Msg("appointment deleted")
	return nil
}

// UpdateNotes merges whichever of the two note fields is present.
func (s *AppointmentService) UpdateNotes(ctx context.Context, id string, in ports.UpdateNotesInput) (*domain.Appointment, error) {
	if in.Notes == nil && in.ProfessionalNotes == nil {
		return nil, validation.Errors{
			{Field: "notes", Code: validation.CodeRequired},
			{Field: "professionalNotes", Code: validation.CodeRequired},
		}
	}

	in.Normalize()
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}

	a, err := s.appointments.UpdateNotes(ctx, id, in.Notes, in.ProfessionalNotes)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update notes: %w", err)
	}
	return a, nil
}

func bookingLockKey(party domain.Party, id string) string {
	return "lock:booking:" + string(party) + ":" + id
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

// PatientService manages patient records and the login account each one gets.
type PatientService struct {
	patients    ports.PatientRepository
	users       ports.UserRepository
	provisioner ports.UserProvisioner
	notifier    ports.Notifier
	validator   *validation.Validator
	log         zerolog.Logger
	now         func() time.Time
}

func NewPatientService(
	patients ports.PatientRepository,
	users ports.UserRepository,
	provisioner ports.UserProvisioner,
	notifier ports.Notifier,
	validator *validation.Validator,
	log zerolog.Logger,
) *PatientService {
	return &PatientService{
		patients:    patients,
		users:       users,
		provisioner: provisioner,
		notifier:    notifier,
		validator:   validator,
		log:         log,
		now:         time.Now,
	}
}

// Create registers a patient and provisions a patient-role account whose
// initial password is the patient's DNI. If the account cannot be created
// the patient document is removed again.
func (s *PatientService) Create(ctx context.Context, in ports.PatientInput) (*domain.Patient, error) {
	in.Normalize()
	if err := s.check(ctx, &in, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Patient{Active: true, CreatedAt: now}
	s.apply(p, in, now)

	created, err := s.patients.Create(ctx, p)
	if err != nil {
		return nil, duplicateAsValidation(err)
	}

	user, err := s.provisioner.Provision(ctx, created.Email, created.DNI, domain.RolePatient,
		&domain.ProfileRef{Kind: domain.ProfilePatient, ID: created.ID})
	if err != nil {
		if delErr := s.patients.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("patient_id", created.ID).Msg("failed to roll back patient after account error")
		}
		return nil, userDuplicateAsValidation(err)
	}

	if err := s.patients.SetUserID(ctx, created.ID, user.ID); err != nil {
		return nil, fmt.Errorf("create patient: link user: %w", err)
	}
	created.UserID = user.ID

	s.log.Info().Str("patient_id", created.ID).Str("user_id", user.ID).Msg("patient created")
	s.notifier.PatientWelcome(ctx, created, domain.PickLanguage(in.PreferredLang, ""))
	return created, nil
}

func (s *PatientService) List(ctx context.Context) ([]*domain.Patient, error) {
	items, err := s.patients.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	if items == nil {
		items = []*domain.Patient{}
	}
	return items, nil
}

// Get returns an active patient; deactivated ones are reported as missing.
func (s *PatientService) Get(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.ErrPatientNotFound
	}
	return p, nil
}

func (s *PatientService) Update(ctx context.Context, id string, in ports.PatientInput) (*domain.Patient, error) {
	p, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Normalize()
	if err := s.check(ctx, &in, id); err != nil {
		return nil, err
	}

	s.apply(p, in, s.now().UTC())
	updated, err := s.patients.Update(ctx, p)
	if err != nil {
		return nil, duplicateAsValidation(err)
	}
	return updated, nil
}

// Deactivate soft-deletes the patient.
func (s *PatientService) Deactivate(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := s.patients.SetActive(ctx, id, false)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("patient_id", id).Msg("patient deactivated")
	return p, nil
}

// check runs the field rules and then the uniqueness lookups for every
// field that passed them. excludeID is the record being edited, if any.
func (s *PatientService) check(ctx context.Context, in *ports.PatientInput, excludeID string) error {
	errs, err := validateInto(s.validator, in)
	if err != nil {
		return err
	}

	unique := []struct{ field, value, code string }{
		{"email", in.Email, validation.CodeEmailExists},
		{"phone", in.Phone, validation.CodePhoneExists},
		{"dni", in.DNI, validation.CodeDNIExists},
	}
	for _, u := range unique {
		if errs.Has(u.field) {
			continue
		}
		taken, err := s.patients.Exists(ctx, u.field, u.value, excludeID)
		if err != nil {
			return fmt.Errorf("check %s: %w", u.field, err)
		}
		if taken {
			errs = errs.Add(u.field, u.code)
		}
	}

	if excludeID == "" && !errs.Has("email") {
		taken, err := s.users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return fmt.Errorf("check user email: %w", err)
		}
		if taken {
			errs = errs.Add("email", validation.CodeUserExists)
		}
	}
	return errs.Err()
}

func (s *PatientService) apply(p *domain.Patient, in ports.PatientInput, now time.Time) {
	birth, _ := validation.ParseDate(in.BirthDate, time.UTC)

	p.FirstName = in.FirstName
	p.LastName = in.LastName
	p.Email = in.Email
	p.Phone = in.Phone
	p.DNI = in.DNI
	p.BirthDate = birth.UTC()
	p.Gender = in.Gender
	p.Street = in.Street
	p.City = in.City
	p.PostalCode = in.PostalCode
	p.Nationality = in.Nationality
	p.EmergencyContact = in.EmergencyContact
	p.ImageURL = in.ImageURL
	p.UpdatedAt = now
}

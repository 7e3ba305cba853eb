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

// ProfessionalService manages professionals and their login accounts.
type ProfessionalService struct {
	professionals ports.ProfessionalRepository
	users         ports.UserRepository
	provisioner   ports.UserProvisioner
	notifier      ports.Notifier
	validator     *validation.Validator
	log           zerolog.Logger
	now           func() time.Time
	color         func() string
}

func NewProfessionalService(
	professionals ports.ProfessionalRepository,
	users ports.UserRepository,
	provisioner ports.UserProvisioner,
	notifier ports.Notifier,
	validator *validation.Validator,
	log zerolog.Logger,
) *ProfessionalService {
	return &ProfessionalService{
		professionals: professionals,
		users:         users,
		provisioner:   provisioner,
		notifier:      notifier,
		validator:     validator,
		log:           log,
		now:           time.Now,
		color:         domain.RandomColor,
	}
}

// Create registers a professional with a random calendar colour and a
// professional-role account whose initial password is the DNI.
func (s *ProfessionalService) Create(ctx context.Context, in ports.ProfessionalInput) (*domain.Professional, error) {
	in.Normalize()
	if err := s.check(ctx, &in, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Professional{Active: true, Color: s.color(), CreatedAt: now}
	s.apply(p, in, now)

	created, err := s.professionals.Create(ctx, p)
	if err != nil {
		return nil, duplicateAsValidation(err)
	}

	user, err := s.provisioner.Provision(ctx, created.Email, created.DNI, domain.RoleProfessional,
		&domain.ProfileRef{Kind: domain.ProfileProfessional, ID: created.ID})
	if err != nil {
		if delErr := s.professionals.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("professional_id", created.ID).Msg("failed to roll back professional after account error")
		}
		return nil, userDuplicateAsValidation(err)
	}

	if err := s.professionals.SetUserID(ctx, created.ID, user.ID); err != nil {
		return nil, fmt.Errorf("create professional: link user: %w", err)
	}
	created.UserID = user.ID

	s.log.Info().Str("professional_id", created.ID).Str("user_id", user.ID).Msg("professional created")
	s.notifier.ProfessionalWelcome(ctx, created, domain.PickLanguage(in.PreferredLang, ""))
	return created, nil
}

func (s *ProfessionalService) List(ctx context.Context) ([]*domain.Professional, error) {
	items, err := s.professionals.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	if items == nil {
		items = []*domain.Professional{}
	}
	return items, nil
}

func (s *ProfessionalService) Get(ctx context.Context, id string) (*domain.Professional, error) {
	p, err := s.professionals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.ErrProfessionalNotFound
	}
	return p, nil
}

func (s *ProfessionalService) Update(ctx context.Context, id string, in ports.ProfessionalInput) (*domain.Professional, error) {
	p, err := s.professionals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Normalize()
	if err := s.check(ctx, &in, id); err != nil {
		return nil, err
	}

	s.apply(p, in, s.now().UTC())
	updated, err := s.professionals.Update(ctx, p)
	if err != nil {
		return nil, duplicateAsValidation(err)
	}
	return updated, nil
}

// ToggleActive flips the active flag, so the same call re-enables a
// professional that was switched off.
func (s *ProfessionalService) ToggleActive(ctx context.Context, id string) (*domain.Professional, error) {
	p, err := s.professionals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.professionals.SetActive(ctx, id, !p.Active)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("professional_id", id).Bool("active", updated.Active).Msg("professional active flag toggled")
	return updated, nil
}

func (s *ProfessionalService) check(ctx context.Context, in *ports.ProfessionalInput, excludeID string) error {
	errs, err := validateInto(s.validator, in)
	if err != nil {
		return err
	}

	unique := []struct{ field, value, code string }{
		{"email", in.Email, validation.CodeEmailExists},
		{"dni", in.DNI, validation.CodeDNIExists},
	}
	for _, u := range unique {
		if errs.Has(u.field) {
			continue
		}
		taken, err := s.professionals.Exists(ctx, u.field, u.value, excludeID)
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

func (s *ProfessionalService) apply(p *domain.Professional, in ports.ProfessionalInput, now time.Time) {
	p.FirstName = in.FirstName
	p.LastName = in.LastName
	p.Profession = in.Profession
	p.Specialty = in.Specialty
	p.Email = in.Email
	p.DNI = in.DNI
	p.ProfessionLicenceNumber = in.ProfessionLicenceNumber
	p.ImageURL = in.ImageURL
	p.UpdatedAt = now
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
	"github.com/ironhealth/clinic-api/internal/pkg/metrics"
)

// NewsletterService records waitlist signups. Signing up twice succeeds
// both times so the endpoint does not reveal who is already listed.
type NewsletterService struct {
	waitlist  ports.WaitlistRepository
	validator *validation.Validator
	log       zerolog.Logger
	now       func() time.Time
}

func NewNewsletterService(waitlist ports.WaitlistRepository, validator *validation.Validator, log zerolog.Logger) *NewsletterService {
	return &NewsletterService{waitlist: waitlist, validator: validator, log: log, now: time.Now}
}

func (s *NewsletterService) Subscribe(ctx context.Context, in ports.NewsletterInput) (*domain.Subscriber, error) {
	in.Normalize()
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}

	sub := &domain.Subscriber{Email: in.Email, SubscribedAt: s.now().UTC()}
	created, err := s.waitlist.Add(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("add to waitlist: %w", err)
	}

	if created {
		metrics.NewsletterSignupsTotal.WithLabelValues("new").Inc()
		s.log.Info().Str("email", sub.Email).Msg("waitlist signup")
	} else {
		metrics.NewsletterSignupsTotal.WithLabelValues("repeat").Inc()
	}
	return sub, nil
}

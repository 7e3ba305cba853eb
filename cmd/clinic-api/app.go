package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/core/validation"
	"github.com/ironhealth/clinic-api/internal/infrastructure/mail"
	"github.com/ironhealth/clinic-api/internal/pkg/config"
	"github.com/ironhealth/clinic-api/pkg/logger"
)

// bootstrap loads configuration and the process logger shared by every command.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, *time.Location, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "clinic-api",
	})
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, log, nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	return cfg, log, loc, nil
}

// newValidator evaluates date rules in the clinic's timezone.
func newValidator(loc *time.Location) *validation.Validator {
	return validation.New(validation.WithClock(func() time.Time { return time.Now().In(loc) }))
}

func newMailer(cfg *config.Config, loc *time.Location) (*mail.Mailer, error) {
	renderer, err := mail.NewRenderer(loc)
	if err != nil {
		return nil, err
	}
	provider := mail.NewResendProvider(cfg.Email.ResendAPIKey, cfg.Email.From)
	return mail.NewMailer(provider, renderer, mail.Options{
		Enabled:       cfg.Email.Enabled,
		Whitelist:     cfg.Email.DevWhitelist,
		MaxBytes:      cfg.MaxEmailBytes(),
		RatePerSecond: cfg.Email.RatePerSecond,
	}, logger.Component("mailer")), nil
}

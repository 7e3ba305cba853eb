package service

import (
	"context"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

// EmailService sends an email synchronously on behalf of an operator.
type EmailService struct {
	mailer    ports.Mailer
	validator *validation.Validator
}

func NewEmailService(mailer ports.Mailer, validator *validation.Validator) *EmailService {
	return &EmailService{mailer: mailer, validator: validator}
}

// Send renders the named template when one is given, otherwise sends the
// raw subject and body.
func (s *EmailService) Send(ctx context.Context, in ports.SendEmailInput) (string, error) {
	in.Normalize()
	if err := s.validator.Struct(&in); err != nil {
		return "", err
	}

	if in.Template != "" {
		return s.mailer.SendTemplate(ctx, ports.EmailJob{
			Template: in.Template,
			To:       in.To,
			Lang:     domain.PickLanguage(in.Lang, ""),
			Data:     in.Data,
		})
	}

	if in.Subject == "" || (in.HTML == "" && in.Text == "") {
		return "", domain.ErrEmailMissingContent
	}
	return s.mailer.Send(ctx, ports.EmailMessage{
		To:      []string{in.To},
		Subject: in.Subject,
		HTML:    in.HTML,
		Text:    in.Text,
	})
}

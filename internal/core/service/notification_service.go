package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

const appointmentLocation = "Consulta"

// NotificationService turns state changes into email jobs on the outbox.
// Publishing failures are logged and never reach the caller.
type NotificationService struct {
	outbox    ports.Outbox
	portalURL string
	log       zerolog.Logger
}

func NewNotificationService(outbox ports.Outbox, portalURL string, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		outbox:    outbox,
		portalURL: strings.TrimRight(portalURL, "/"),
		log:       log,
	}
}

func (s *NotificationService) PatientWelcome(ctx context.Context, p *domain.Patient, lang string) {
	s.publish(ctx, ports.EmailJob{
		Template: ports.TemplatePatientWelcome,
		To:       p.Email,
		Lang:     lang,
		Data: ports.TemplateData{
			FirstName: p.FirstName,
			PortalURL: s.portalURL,
		},
	})
}

func (s *NotificationService) ProfessionalWelcome(ctx context.Context, p *domain.Professional, lang string) {
	s.publish(ctx, ports.EmailJob{
		Template: ports.TemplateProfessionalWelcome,
		To:       p.Email,
		Lang:     lang,
		Data: ports.TemplateData{
			FirstName: p.FirstName,
			PortalURL: s.portalURL + "/professionals/" + p.ID,
		},
	})
}

func (s *NotificationService) AppointmentBooked(ctx context.Context, a *domain.Appointment, patient *domain.Patient, professional *domain.Professional, lang string) {
	s.publish(ctx, ports.EmailJob{
		Template: ports.TemplateAppointmentBooked,
		To:       patient.Email,
		Lang:     lang,
		Data: ports.TemplateData{
			PatientName:      patient.FullName(),
			ProfessionalName: professional.FullName(),
			AppointmentID:    a.ID,
			Start:            a.StartDate,
			End:              a.EndDate,
			Location:         appointmentLocation,
			PortalURL:        s.portalURL + "/appointments/" + a.ID,
		},
	})
}

// publish detaches from the request context: the job must survive the
// response being written.
func (s *NotificationService) publish(ctx context.Context, job ports.EmailJob) {
	if job.To == "" {
		s.log.Warn().Str("template", job.Template).Msg("email skipped: no recipient")
		return
	}
	if err := s.outbox.Publish(context.WithoutCancel(ctx), job); err != nil {
		s.log.Error().Err(err).
			Str("template", job.Template).
			Str("to", job.To).
			Msg("email scheduling failed")
	}
}

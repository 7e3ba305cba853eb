package mail

import (
	"fmt"
	"time"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

// messages holds the localised copy used by the templates, keyed by
// language and then by message key.
var messages = map[string]map[string]string{
	"es": {
		"patient_default":      "Paciente",
		"professional_default": "Profesional",
		"hi":                   "Hola",
		"welcome_patient":      "Gracias por registrarte en IronHealth. Ya puedes gestionar tus citas y tus datos.",
		"welcome_professional": "Ya tienes acceso a IronHealth. Desde el portal puedes consultar tu agenda y las notas de tus citas.",
		"credentials":          "Tu contraseña inicial es tu DNI. Te recomendamos cambiarla al entrar.",
		"portal_cta":           "Acceder al portal",
		"booked_title":         "Tu cita ha sido confirmada",
		"booked_with":          "Tu cita con",
		"booked_scheduled":     "ha sido programada.",
		"start":                "Inicio",
		"end":                  "Fin",
		"place":                "Lugar",
		"booked_cta":           "Ver mi cita",
		"attach":               "Adjuntamos un archivo para añadirla a tu calendario.",
		"footer":               "Este es un correo automático. Por favor, no respondas a este mensaje.",
		"ics_summary":          "Cita con %s",
		"ics_description":      "Cita de %s con %s",
	},
	"en": {
		"patient_default":      "Patient",
		"professional_default": "Professional",
		"hi":                   "Hi",
		"welcome_patient":      "Thanks for signing up to IronHealth. You can now manage your appointments and your details.",
		"welcome_professional": "You now have access to IronHealth. Use the portal to check your schedule and appointment notes.",
		"credentials":          "Your initial password is your DNI. Please change it after signing in.",
		"portal_cta":           "Open the portal",
		"booked_title":         "Your appointment is confirmed",
		"booked_with":          "Your appointment with",
		"booked_scheduled":     "has been scheduled.",
		"start":                "Start",
		"end":                  "End",
		"place":                "Location",
		"booked_cta":           "View my appointment",
		"attach":               "We attach a file so you can add it to your calendar.",
		"footer":               "This is an automated email. Please do not reply.",
		"ics_summary":          "Appointment with %s",
		"ics_description":      "Appointment of %s with %s",
	},
}

// subjects are fmt formats taking the template's leading name.
var subjects = map[string]map[string]string{
	ports.TemplatePatientWelcome: {
		"es": "¡Bienvenido/a a IronHealth, %s!",
		"en": "Welcome to IronHealth, %s!",
	},
	ports.TemplateProfessionalWelcome: {
		"es": "¡Bienvenido/a al equipo de IronHealth, %s!",
		"en": "Welcome to the IronHealth team, %s!",
	},
	ports.TemplateAppointmentBooked: {
		"es": "Cita confirmada con %s",
		"en": "Appointment confirmed with %s",
	},
}

var (
	weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	monthsES   = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

func catalog(lang string) map[string]string {
	if m, ok := messages[lang]; ok {
		return m
	}
	return messages[domain.DefaultLanguage]
}

func subjectFor(template, lang, name string) string {
	formats := subjects[template]
	f, ok := formats[lang]
	if !ok {
		f = formats[domain.DefaultLanguage]
	}
	return fmt.Sprintf(f, name)
}

// formatDate renders a full date and short time in the recipient's language.
func formatDate(lang string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if lang == "en" {
		return t.Format("Monday, January 2, 2006 at 3:04 PM")
	}
	return fmt.Sprintf("%s, %d de %s de %d, %s",
		weekdaysES[t.Weekday()], t.Day(), monthsES[t.Month()-1], t.Year(), t.Format("15:04"))
}

package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

const (
	icsFilename    = "cita.ics"
	icsContentType = "text/calendar; charset=utf-8; method=REQUEST"
	icsProductID   = "-//IronHealth//Clinic API//ES"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// view is what every template executes against.
type view struct {
	T            map[string]string
	D            ports.TemplateData
	Name         string
	Professional string
	Start        string
	End          string
}

// Renderer turns an EmailJob into a ready-to-send message.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
	loc  *time.Location
}

// NewRenderer parses the embedded templates. Dates are shown in loc.
func NewRenderer(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	h, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	t, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Renderer{html: h, text: t, loc: loc}, nil
}

// Render fills the named template. Unknown names yield
// domain.ErrEmailTemplateNotFound.
func (r *Renderer) Render(job ports.EmailJob) (ports.EmailMessage, error) {
	if _, ok := subjects[job.Template]; !ok {
		return ports.EmailMessage{}, domain.ErrEmailTemplateNotFound
	}

	lang := domain.PickLanguage(job.Lang, "")
	msgs := catalog(lang)
	defaultName := msgs["patient_default"]
	if job.Template == ports.TemplateProfessionalWelcome {
		defaultName = msgs["professional_default"]
	}
	v := view{
		T:            msgs,
		D:            job.Data,
		Name:         firstNonEmpty(job.Data.FirstName, job.Data.PatientName, defaultName),
		Professional: firstNonEmpty(job.Data.ProfessionalName, msgs["professional_default"]),
		Start:        formatDate(lang, r.in(job.Data.Start)),
		End:          formatDate(lang, r.in(job.Data.End)),
	}

	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, job.Template+".html", v); err != nil {
		return ports.EmailMessage{}, fmt.Errorf("render %s html: %w", job.Template, err)
	}
	if err := r.text.ExecuteTemplate(&text, job.Template+".txt", v); err != nil {
		return ports.EmailMessage{}, fmt.Errorf("render %s text: %w", job.Template, err)
	}

	subjectName := v.Name
	if job.Template == ports.TemplateAppointmentBooked {
		subjectName = v.Professional
	}

	msg := ports.EmailMessage{
		To:      []string{job.To},
		Subject: subjectFor(job.Template, lang, subjectName),
		HTML:    strings.TrimSpace(html.String()),
		Text:    strings.TrimSpace(text.String()),
	}
	if job.Template == ports.TemplateAppointmentBooked {
		msg.Attachments = []ports.EmailAttachment{r.appointmentICS(job, v)}
	}
	return msg, nil
}

func (r *Renderer) in(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(r.loc)
}

// appointmentICS builds a single-event calendar the recipient can import.
func (r *Renderer) appointmentICS(job ports.EmailJob, v view) ports.EmailAttachment {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId(icsProductID)

	uid := job.Data.AppointmentID
	if uid == "" {
		uid = fmt.Sprintf("%d", job.Data.Start.Unix())
	}
	event := cal.AddEvent(uid + "@ironhealth")
	event.SetDtStampTime(time.Now().UTC())
	event.SetStartAt(job.Data.Start.UTC())
	event.SetEndAt(job.Data.End.UTC())
	event.SetSummary(fmt.Sprintf(v.T["ics_summary"], v.Professional))
	event.SetDescription(fmt.Sprintf(v.T["ics_description"], v.Name, v.Professional))
	if job.Data.Location != "" {
		event.SetLocation(job.Data.Location)
	}
	if job.Data.PortalURL != "" {
		event.SetURL(job.Data.PortalURL)
	}

	return ports.EmailAttachment{
		Filename:    icsFilename,
		ContentType: icsContentType,
		Content:     []byte(cal.Serialize()),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package ports

import (
	"strings"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

// LoginInput carries credentials for POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6" code:"PASSWORD_MIN_LENGTH"`
}

// CreateAppointmentInput is the booking request. Dates stay strings until
// validated so format errors can be reported per field.
type CreateAppointmentInput struct {
	ProfessionalID string `json:"professionalId" validate:"required,mongodb"`
	PatientID      string `json:"patientId" validate:"required,mongodb"`
	StartDate      string `json:"startDate" validate:"required,iso8601,future"`
	EndDate        string `json:"endDate" validate:"required,iso8601,future,after=StartDate"`
	Notes          string `json:"notes" validate:"omitempty,nohtml,max=500" code:"NOTES_TOO_LONG"`
	PreferredLang  string `json:"preferredLang"`
}

func (in *CreateAppointmentInput) Normalize() {
	in.ProfessionalID = strings.TrimSpace(in.ProfessionalID)
	in.PatientID = strings.TrimSpace(in.PatientID)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Notes = strings.TrimSpace(in.Notes)
	in.PreferredLang = strings.ToLower(strings.TrimSpace(in.PreferredLang))
}

// UpdateNotesInput patches appointment notes. Nil fields are left untouched;
// at least one must be present.
type UpdateNotesInput struct {
	Notes             *string `json:"notes" validate:"omitempty,nohtml,max=500" code:"NOTES_TOO_LONG"`
	ProfessionalNotes *string `json:"professionalNotes" validate:"omitempty,max=2000" code:"NOTES_TOO_LONG"`
}

func (in *UpdateNotesInput) Normalize() {
	in.Notes = trimPtr(in.Notes)
	in.ProfessionalNotes = trimPtr(in.ProfessionalNotes)
}

// PatientInput is shared by create and edit.
type PatientInput struct {
	FirstName        string `json:"firstName" validate:"required,min=2,max=50,personname" code:"NAME_MIN_LENGTH"`
	LastName         string `json:"lastName" validate:"required,min=2,max=50,personname" code:"NAME_MIN_LENGTH"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,phone"`
	DNI              string `json:"dni" validate:"required,dni"`
	BirthDate        string `json:"birthDate" validate:"required,iso8601,past"`
	Gender           string `json:"gender" validate:"required,oneof=male female non-binary" code:"GENDER_INVALID"`
	Street           string `json:"street" validate:"required,min=2,max=100,street" code:"STREET_INVALID_FORMAT"`
	City             string `json:"city" validate:"required,min=2,max=50,city" code:"CITY_INVALID_FORMAT"`
	PostalCode       string `json:"postalCode" validate:"required,postalcode"`
	Nationality      string `json:"nationality" validate:"required,min=2,max=50,nationality" code:"NATIONALITY_INVALID"`
	EmergencyContact string `json:"emergencyContact" validate:"required,emergencyphone"`
	ImageURL         string `json:"imageUrl" validate:"omitempty,url"`
	PreferredLang    string `json:"preferredLang"`
}

func (in *PatientInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.DNI = domain.NormalizeDNI(in.DNI)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.Nationality = strings.TrimSpace(in.Nationality)
	in.EmergencyContact = strings.TrimSpace(in.EmergencyContact)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.PreferredLang = strings.ToLower(strings.TrimSpace(in.PreferredLang))
}

// ProfessionalInput is shared by create and edit.
type ProfessionalInput struct {
	FirstName               string `json:"firstName" validate:"required,min=2,max=50,personname" code:"NAME_MIN_LENGTH"`
	LastName                string `json:"lastName" validate:"required,min=2,max=50,personname" code:"NAME_MIN_LENGTH"`
	Profession              string `json:"profession" validate:"required,min=2,max=50" code:"PROFESSION_INVALID"`
	Specialty               string `json:"specialty" validate:"omitempty,max=100" code:"SPECIALTY_INVALID"`
	Email                   string `json:"email" validate:"required,email"`
	DNI                     string `json:"dni" validate:"required,dni"`
	ProfessionLicenceNumber string `json:"professionLicenceNumber" validate:"omitempty,alphanum" code:"LICENCE_NUMBER_INVALID"`
	ImageURL                string `json:"imageUrl" validate:"omitempty,url"`
	PreferredLang           string `json:"preferredLang"`
}

func (in *ProfessionalInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Profession = strings.TrimSpace(in.Profession)
	in.Specialty = strings.TrimSpace(in.Specialty)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DNI = domain.NormalizeDNI(in.DNI)
	in.ProfessionLicenceNumber = strings.TrimSpace(in.ProfessionLicenceNumber)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.PreferredLang = strings.ToLower(strings.TrimSpace(in.PreferredLang))
}

// SendEmailInput is the body of POST /api/sendEmail: either a template with
// data, or a raw subject with html and/or text.
type SendEmailInput struct {
	To       string       `json:"to" validate:"required,email"`
	Template string       `json:"template"`
	Data     TemplateData `json:"data"`
	Lang     string       `json:"lang"`
	Subject  string       `json:"subject" validate:"omitempty,max=150"`
	HTML     string       `json:"html"`
	Text     string       `json:"text"`
}

func (in *SendEmailInput) Normalize() {
	in.To = strings.ToLower(strings.TrimSpace(in.To))
	in.Template = strings.TrimSpace(in.Template)
	in.Lang = strings.ToLower(strings.TrimSpace(in.Lang))
	in.Subject = strings.TrimSpace(in.Subject)
}

// NewsletterInput is the body of POST /api/newsletter.
type NewsletterInput struct {
	Email string `json:"email" validate:"required,email"`
}

func (in *NewsletterInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

package validation

const (
	CodeRequired            = "FORM_FIELDS_REQUIRED"
	CodeInvalid             = "FIELD_INVALID"
	CodeIDInvalid           = "ID_INVALID_FORMAT"
	CodeDateInvalid         = "DATE_INVALID_FORMAT"
	CodeDateMustBeFuture    = "DATE_MUST_BE_FUTURE"
	CodeEndDateAfterStart   = "END_DATE_AFTER_START"
	CodeNotesHTML           = "NOTES_HTML_NOT_ALLOWED"
	CodeNotesTooLong        = "NOTES_TOO_LONG"
	CodeNameMinLength       = "NAME_MIN_LENGTH"
	CodeNameInvalidChars    = "NAME_INVALID_CHARACTERS"
	CodeEmailInvalid        = "EMAIL_INVALID_FORMAT"
	CodeEmailExists         = "EMAIL_ALREADY_EXISTS"
	CodeUserExists          = "USER_ALREADY_EXISTS"
	CodePhoneInvalid        = "PHONE_INVALID_FORMAT"
	CodePhoneExists         = "PHONE_ALREADY_EXISTS"
	CodeDNIInvalid          = "DNI_INVALID_FORMAT"
	CodeDNIExists           = "DNI_ALREADY_EXISTS"
	CodeBirthDateInvalid    = "BIRTHDATE_INVALID"
	CodeGenderInvalid       = "GENDER_INVALID"
	CodeStreetInvalid       = "STREET_INVALID_FORMAT"
	CodeCityInvalid         = "CITY_INVALID_FORMAT"
	CodePostalCodeInvalid   = "POSTAL_CODE_INVALID_FORMAT"
	CodeNationalityInvalid  = "NATIONALITY_INVALID"
	CodeEmergencyInvalid    = "EMERGENCY_CONTACT_INVALID"
	CodeURLInvalid          = "URL_INVALID_FORMAT"
	CodePasswordMinLength   = "PASSWORD_MIN_LENGTH"
	CodeLicenceInvalid      = "LICENCE_NUMBER_INVALID"
	CodeProfessionInvalid   = "PROFESSION_INVALID"
	CodeSpecialtyInvalid    = "SPECIALTY_INVALID"
	CodeTemplateRequired    = "TEMPLATE_REQUIRED"
	CodeContentTypeRequired = "CONTENT_TYPE_INVALID"
)

// tagCodes fixes the code for rules whose meaning does not depend on the
// field. Rules not listed here take the field's `code` struct tag.
var tagCodes = map[string]string{
	"required":       CodeRequired,
	"mongodb":        CodeIDInvalid,
	"iso8601":        CodeDateInvalid,
	"future":         CodeDateMustBeFuture,
	"after":          CodeEndDateAfterStart,
	"nohtml":         CodeNotesHTML,
	"personname":     CodeNameInvalidChars,
	"email":          CodeEmailInvalid,
	"phone":          CodePhoneInvalid,
	"dni":            CodeDNIInvalid,
	"past":           CodeBirthDateInvalid,
	"postalcode":     CodePostalCodeInvalid,
	"emergencyphone": CodeEmergencyInvalid,
	"url":            CodeURLInvalid,
	"http_url":       CodeURLInvalid,
}

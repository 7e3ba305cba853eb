package domain

// Message codes returned in the response envelope. Clients branch on these;
// wording and localisation are their concern.
const (
	CodeLoginSuccessful  = "LOGIN_SUCCESSFUL"
	CodeLogoutSuccessful = "LOGOUT_SUCCESSFUL"
	CodePasswordChanged  = "PASSWORD_CHANGED"
	CodeUsersRetrieved   = "USERS_RETRIEVED"

	CodeAppointmentCreated    = "APPOINTMENT_CREATED"
	CodeAppointmentsRetrieved = "APPOINTMENTS_RETRIEVED"
	CodeAppointmentRetrieved  = "APPOINTMENT_RETRIEVED"
	CodeAppointmentCancelled  = "APPOINTMENT_CANCELLED"
	CodeAppointmentDeleted    = "APPOINTMENT_DELETED"
	CodeNotesUpdated          = "NOTES_UPDATED"

	CodePatientCreated    = "PATIENT_CREATED"
	CodePatientsRetrieved = "PATIENTS_RETRIEVED"
	CodePatientRetrieved  = "PATIENT_RETRIEVED"
	CodePatientUpdated    = "PATIENT_UPDATED"
	CodePatientDeleted    = "PATIENT_DELETED"

	CodeProfessionalCreated    = "PROFESSIONAL_CREATED"
	CodeProfessionalsRetrieved = "PROFESSIONALS_RETRIEVED"
	CodeProfessionalRetrieved  = "PROFESSIONAL_RETRIEVED"
	CodeProfessionalUpdated    = "PROFESSIONAL_UPDATED"
	CodeProfessionalDeleted    = "PROFESSIONAL_DELETED"

	CodeEmailSent            = "EMAIL_SENT"
	CodeUploadSigned         = "UPLOAD_SIGNED"
	CodeNewsletterSubscribed = "NEWSLETTER_SUBSCRIBED"
)

// Error codes.
const (
	CodeValidationFailed         = "VALIDATION_FAILED"
	CodeInvalidToken             = "INVALID_TOKEN"
	CodeInvalidCredentials       = "INVALID_CREDENTIALS"
	CodeInsufficientPermissions  = "INSUFFICIENT_PERMISSIONS"
	CodeUnauthorizedProfile      = "UNAUTHORIZED_PROFILE_ACCESS"
	CodeIncorrectPassword        = "INCORRECT_PASSWORD"
	CodeAppointmentNotFound      = "APPOINTMENT_NOT_FOUND"
	CodePatientNotFound          = "PATIENT_NOT_FOUND"
	CodeProfessionalNotFound     = "PROFESSIONAL_NOT_FOUND"
	CodeUserNotFound             = "USER_NOT_FOUND"
	CodeAppointmentConflict      = "APPOINTMENT_CONFLICT"
	CodeBookingInProgress        = "BOOKING_IN_PROGRESS"
	CodeDuplicateValue           = "DUPLICATE_VALUE"
	CodeEmailTooLarge            = "EMAIL_TOO_LARGE"
	CodeEmailTemplateNotFound    = "EMAIL_TEMPLATE_NOT_FOUND"
	CodeEmailMissingContent      = "MISSING_CONTENT"
	CodeEmailMissingRecipient    = "MISSING_RECIPIENT"
	CodeEmailSendFailed          = "EMAIL_SEND_FAILED"
	CodeUploadStorageUnavailable = "UPLOAD_STORAGE_UNAVAILABLE"
	CodeTooManyRequests          = "TOO_MANY_REQUESTS"
	CodeRouteNotFound            = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed         = "METHOD_NOT_ALLOWED"
	CodeInvalidPayload           = "INVALID_PAYLOAD"
	CodeInternalServerError      = "INTERNAL_SERVER_ERROR"
)

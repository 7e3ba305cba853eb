package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

type patientFixture struct {
	svc      *PatientService
	patients *stubPatientRepo
	users    *stubUserRepo
	notifier *stubNotifier
}

func newPatientFixture() *patientFixture {
	f := &patientFixture{
		patients: newStubPatientRepo(),
		users:    newStubUserRepo(),
		notifier: &stubNotifier{},
	}
	auth := NewAuthService(f.users, NewProfileResolver(f.patients, newStubProfessionalRepo()), newTestValidator(), testSecret, 0, discardLogger)
	f.svc = NewPatientService(f.patients, f.users, auth, f.notifier, newTestValidator(), discardLogger)
	f.svc.now = testClock
	return f
}

func validPatientInput() ports.PatientInput {
	return ports.PatientInput{
		FirstName:        "Ana",
		LastName:         "López",
		Email:            "Ana@Example.com",
		Phone:            "+34600111222",
		DNI:              "12345678z",
		BirthDate:        "1990-04-01",
		Gender:           "female",
		Street:           "Calle Mayor 5",
		City:             "Madrid",
		PostalCode:       "28013",
		Nationality:      "Española",
		EmergencyContact: "+34600999888",
	}
}

func TestPatientService_Create_Success(t *testing.T) {
	f := newPatientFixture()

	p, err := f.svc.Create(context.Background(), validPatientInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Email != "ana@example.com" || p.DNI != "12345678Z" {
		t.Errorf("expected normalised email and dni, got %q %q", p.Email, p.DNI)
	}
	if !p.Active || p.UserID == "" {
		t.Errorf("expected active patient linked to a user, got %+v", p)
	}

	user := f.users.byID[p.UserID]
	if user == nil || user.Role != domain.RolePatient || user.ProfileID() != p.ID {
		t.Fatalf("unexpected provisioned user: %+v", user)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("12345678Z")) != nil {
		t.Error("initial password should be the DNI")
	}
	if len(f.notifier.patientWelcomes) != 1 {
		t.Errorf("expected one welcome email, got %v", f.notifier.patientWelcomes)
	}
}

func TestPatientService_Create_SecondSubmissionCollides(t *testing.T) {
	f := newPatientFixture()
	ctx := context.Background()
	if _, err := f.svc.Create(ctx, validPatientInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := f.svc.Create(ctx, validPatientInput())
	codes := fieldCodes(t, err)
	want := map[string]string{
		"email": validation.CodeEmailExists,
		"phone": validation.CodePhoneExists,
		"dni":   validation.CodeDNIExists,
	}
	for field, code := range want {
		if codes[field] != code {
			t.Errorf("%s: expected %s, got %s", field, code, codes[field])
		}
	}
}

func TestPatientService_Create_EmailTakenByUser(t *testing.T) {
	f := newPatientFixture()
	f.users.byID["u1"] = &domain.User{ID: "u1", Email: "ana@example.com", Role: domain.RoleAdmin}

	_, err := f.svc.Create(context.Background(), validPatientInput())
	if codes := fieldCodes(t, err); codes["email"] != validation.CodeUserExists {
		t.Fatalf("expected USER_ALREADY_EXISTS, got %v", codes)
	}
}

func TestPatientService_Create_FormatErrorsSkipUniqueness(t *testing.T) {
	f := newPatientFixture()
	in := validPatientInput()
	in.Email = "not-an-email"
	in.DNI = "12345678A"
	in.PostalCode = "123"
	in.BirthDate = "2031-01-01"

	_, err := f.svc.Create(context.Background(), in)
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %v", errs)
	}
	codes := fieldCodes(t, err)
	if codes["email"] != validation.CodeEmailInvalid || codes["dni"] != validation.CodeDNIInvalid ||
		codes["postalCode"] != validation.CodePostalCodeInvalid || codes["birthDate"] != validation.CodeBirthDateInvalid {
		t.Errorf("unexpected codes: %v", codes)
	}
}

func TestPatientService_Create_RollsBackOnAccountFailure(t *testing.T) {
	f := newPatientFixture()
	f.users.createErr = errors.New("boom")

	if _, err := f.svc.Create(context.Background(), validPatientInput()); err == nil {
		t.Fatal("expected error")
	}
	if len(f.patients.byID) != 0 || len(f.patients.deleted) != 1 {
		t.Fatalf("patient should be removed after account failure: %v", f.patients.byID)
	}
	if len(f.notifier.patientWelcomes) != 0 {
		t.Error("no welcome email on failure")
	}
}

func TestPatientService_Create_DuplicateKeyRace(t *testing.T) {
	f := newPatientFixture()
	f.patients.createErr = &domain.DuplicateError{Field: "phone"}

	_, err := f.svc.Create(context.Background(), validPatientInput())
	if codes := fieldCodes(t, err); codes["phone"] != validation.CodePhoneExists {
		t.Fatalf("expected PHONE_ALREADY_EXISTS, got %v", codes)
	}
}

func TestPatientService_Update_ExcludesSelf(t *testing.T) {
	f := newPatientFixture()
	ctx := context.Background()
	p, err := f.svc.Create(ctx, validPatientInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validPatientInput()
	in.City = "Sevilla"
	updated, err := f.svc.Update(ctx, p.ID, in)
	if err != nil {
		t.Fatalf("update with own unique values should pass: %v", err)
	}
	if updated.City != "Sevilla" {
		t.Errorf("expected city updated, got %q", updated.City)
	}
}

func TestPatientService_DeactivateHidesPatient(t *testing.T) {
	f := newPatientFixture()
	ctx := context.Background()
	p, err := f.svc.Create(ctx, validPatientInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.Deactivate(ctx, p.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.svc.Get(ctx, p.ID); !errors.Is(err, domain.ErrPatientNotFound) {
		t.Errorf("expected not found after deactivation, got %v", err)
	}
	list, _ := f.svc.List(ctx)
	if len(list) != 0 {
		t.Errorf("inactive patient should not be listed: %v", list)
	}
	if _, ok := f.patients.byID[p.ID]; !ok {
		t.Error("soft delete must keep the document")
	}
}

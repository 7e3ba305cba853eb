package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

type appointmentFixture struct {
	svc           *AppointmentService
	repo          *stubAppointmentRepo
	patients      *stubPatientRepo
	professionals *stubProfessionalRepo
	locker        *stubLocker
	notifier      *stubNotifier
	patient       *domain.Patient
	professional  *domain.Professional
}

func newAppointmentFixture() *appointmentFixture {
	f := &appointmentFixture{
		repo:          newStubAppointmentRepo(),
		patients:      newStubPatientRepo(),
		professionals: newStubProfessionalRepo(),
		locker:        newStubLocker(),
		notifier:      &stubNotifier{},
	}
	f.patient = f.patients.add(&domain.Patient{FirstName: "Ana", LastName: "López", Email: "ana@example.com", Active: true})
	f.professional = f.professionals.add(&domain.Professional{FirstName: "Luis", LastName: "Pérez", Email: "luis@example.com", Active: true})
	f.svc = NewAppointmentService(f.repo, f.patients, f.professionals, f.locker, f.notifier, newTestValidator(), discardLogger)
	f.svc.now = testClock
	return f
}

func (f *appointmentFixture) input(start, end string) ports.CreateAppointmentInput {
	return ports.CreateAppointmentInput{
		ProfessionalID: f.professional.ID,
		PatientID:      f.patient.ID,
		StartDate:      start,
		EndDate:        end,
	}
}

var adminCaller = domain.Identity{UserID: "u-admin", Role: domain.RoleAdmin}

func fieldCodes(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field] = fe.Code
	}
	return out
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestAppointmentService_Create_Success(t *testing.T) {
	f := newAppointmentFixture()
	in := f.input("2030-06-16T10:00:00Z", "2030-06-16T10:30:00Z")
	in.Notes = "  first visit  "
	in.PreferredLang = "en"

	a, err := f.svc.Create(context.Background(), adminCaller, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2030, 6, 16, 10, 0, 0, 0, time.UTC)
	if !a.StartDate.Equal(wantStart) || !a.EndDate.Equal(wantStart.Add(30*time.Minute)) {
		t.Errorf("stored interval does not match input: %v - %v", a.StartDate, a.EndDate)
	}
	if a.Status.Cancelled {
		t.Error("new appointment must not be cancelled")
	}
	if a.Notes != "first visit" {
		t.Errorf("expected trimmed notes, got %q", a.Notes)
	}
	if len(f.notifier.booked) != 1 || f.notifier.booked[0].to != "ana@example.com" || f.notifier.booked[0].lang != "en" {
		t.Errorf("expected one booking email to the patient, got %+v", f.notifier.booked)
	}
	if len(f.locker.held) != 0 {
		t.Errorf("locks not released: %v", f.locker.held)
	}
	if len(f.locker.acquired) != 1 || len(f.locker.acquired[0]) != 2 {
		t.Errorf("expected both parties locked, got %v", f.locker.acquired)
	}
}

func TestAppointmentService_Create_LocalTimesUseClinicZone(t *testing.T) {
	f := newAppointmentFixture()
	madrid := time.FixedZone("CEST", 2*60*60)
	f.svc.validator = validation.New(validation.WithClock(func() time.Time { return testNow.In(madrid) }))

	a, err := f.svc.Create(context.Background(), adminCaller, f.input("2030-06-16T10:00", "2030-06-16T10:30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2030, 6, 16, 8, 0, 0, 0, time.UTC)
	if !a.StartDate.Equal(wantStart) || !a.EndDate.Equal(wantStart.Add(30*time.Minute)) {
		t.Errorf("expected 08:00-08:30 UTC, got %v - %v", a.StartDate.UTC(), a.EndDate.UTC())
	}
}

func TestAppointmentService_Create_ProfessionalConflict(t *testing.T) {
	f := newAppointmentFixture()
	if _, err := f.svc.Create(context.Background(), adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	other := f.patients.add(&domain.Patient{Email: "other@example.com", Active: true})
	in := f.input("2030-06-16T10:30:00Z", "2030-06-16T11:30:00Z")
	in.PatientID = other.ID

	_, err := f.svc.Create(context.Background(), adminCaller, in)
	if !errors.Is(err, domain.ErrAppointmentConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var ce *domain.ConflictError
	if !errors.As(err, &ce) || ce.Party != domain.PartyProfessional {
		t.Fatalf("expected professional conflict, got %v", err)
	}
	if len(f.notifier.booked) != 1 {
		t.Errorf("rejected booking must not send email")
	}
}

func TestAppointmentService_Create_PatientConflict(t *testing.T) {
	f := newAppointmentFixture()
	if _, err := f.svc.Create(context.Background(), adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	otherPro := f.professionals.add(&domain.Professional{Email: "p2@example.com", Active: true})
	in := f.input("2030-06-16T09:30:00Z", "2030-06-16T10:01:00Z")
	in.ProfessionalID = otherPro.ID

	_, err := f.svc.Create(context.Background(), adminCaller, in)
	var ce *domain.ConflictError
	if !errors.As(err, &ce) || ce.Party != domain.PartyPatient {
		t.Fatalf("expected patient conflict, got %v", err)
	}
}

func TestAppointmentService_Create_BackToBackAllowed(t *testing.T) {
	f := newAppointmentFixture()
	ctx := context.Background()
	if _, err := f.svc.Create(ctx, adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.Create(ctx, adminCaller, f.input("2030-06-16T11:00:00Z", "2030-06-16T12:00:00Z")); err != nil {
		t.Fatalf("adjacent slot should be accepted: %v", err)
	}
}

func TestAppointmentService_Create_CancelledSlotIsFree(t *testing.T) {
	f := newAppointmentFixture()
	ctx := context.Background()
	first, err := f.svc.Create(ctx, adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, first.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.svc.Create(ctx, adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z")); err != nil {
		t.Fatalf("slot of a cancelled appointment should be bookable: %v", err)
	}
}

func TestAppointmentService_Create_EqualStartEnd(t *testing.T) {
	f := newAppointmentFixture()
	_, err := f.svc.Create(context.Background(), adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T10:00:00Z"))

	codes := fieldCodes(t, err)
	if codes["endDate"] != validation.CodeEndDateAfterStart {
		t.Fatalf("expected END_DATE_AFTER_START, got %v", codes)
	}
}

func TestAppointmentService_Create_ReportsAllViolations(t *testing.T) {
	f := newAppointmentFixture()
	_, err := f.svc.Create(context.Background(), adminCaller, ports.CreateAppointmentInput{
		ProfessionalID: "bad",
		PatientID:      "",
		StartDate:      "2030-06-14T10:00:00Z",
		EndDate:        "not-a-date",
		Notes:          strings.Repeat("x", 501),
	})

	codes := fieldCodes(t, err)
	want := map[string]string{
		"professionalId": validation.CodeIDInvalid,
		"patientId":      validation.CodeRequired,
		"startDate":      validation.CodeDateMustBeFuture,
		"endDate":        validation.CodeDateInvalid,
		"notes":          validation.CodeNotesTooLong,
	}
	if len(codes) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), codes)
	}
	for field, code := range want {
		if codes[field] != code {
			t.Errorf("%s: expected %s, got %s", field, code, codes[field])
		}
	}
}

func TestAppointmentService_Create_RejectsHTMLNotes(t *testing.T) {
	f := newAppointmentFixture()
	in := f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z")
	in.Notes = `<script>alert(1)</script>`

	_, err := f.svc.Create(context.Background(), adminCaller, in)
	if codes := fieldCodes(t, err); codes["notes"] != validation.CodeNotesHTML {
		t.Fatalf("expected NOTES_HTML_NOT_ALLOWED, got %v", codes)
	}
}

func TestAppointmentService_Create_PatientBooksForOther(t *testing.T) {
	f := newAppointmentFixture()
	caller := domain.Identity{Role: domain.RolePatient, ProfileID: hexID(1)}

	_, err := f.svc.Create(context.Background(), caller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z"))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAppointmentService_Create_PatientBooksForSelf(t *testing.T) {
	f := newAppointmentFixture()
	caller := domain.Identity{Role: domain.RolePatient, ProfileID: f.patient.ID}

	if _, err := f.svc.Create(context.Background(), caller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppointmentService_Create_InactiveReferences(t *testing.T) {
	f := newAppointmentFixture()
	f.patients.byID[f.patient.ID].Active = false

	_, err := f.svc.Create(context.Background(), adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z"))
	if !errors.Is(err, domain.ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}

	f.patients.byID[f.patient.ID].Active = true
	in := f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z")
	in.ProfessionalID = hexID(9)
	_, err = f.svc.Create(context.Background(), adminCaller, in)
	if !errors.Is(err, domain.ErrProfessionalNotFound) {
		t.Fatalf("expected ErrProfessionalNotFound, got %v", err)
	}
}

func TestAppointmentService_Create_LockBusy(t *testing.T) {
	f := newAppointmentFixture()
	f.locker.held[bookingLockKey(domain.PartyProfessional, f.professional.ID)] = true

	_, err := f.svc.Create(context.Background(), adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z"))
	if !errors.Is(err, domain.ErrBookingInProgress) {
		t.Fatalf("expected ErrBookingInProgress, got %v", err)
	}
	if len(f.repo.byID) != 0 {
		t.Fatal("nothing should be stored when the lock is busy")
	}
}

// ---------------------------------------------------------------------------
// List / Cancel / Delete / UpdateNotes
// ---------------------------------------------------------------------------

func TestAppointmentService_List_EmptyIsNotNil(t *testing.T) {
	f := newAppointmentFixture()
	items, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestAppointmentService_Cancel_KeepsRecord(t *testing.T) {
	f := newAppointmentFixture()
	ctx := context.Background()
	a, err := f.svc.Create(ctx, adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	first, err := f.svc.Cancel(ctx, a.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	second, err := f.svc.Cancel(ctx, a.ID)
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if !second.Status.Cancelled || !second.Status.Timestamp.Equal(*first.Status.Timestamp) {
		t.Errorf("cancel should be idempotent: %+v vs %+v", first.Status, second.Status)
	}

	got, err := f.svc.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("cancelled appointment must still exist: %v", err)
	}
	if !got.Status.Cancelled {
		t.Error("expected status.cancelled=true")
	}
}

func TestAppointmentService_Cancel_NotFound(t *testing.T) {
	f := newAppointmentFixture()
	if _, err := f.svc.Cancel(context.Background(), hexID(77)); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestAppointmentService_Delete_IsIrreversible(t *testing.T) {
	f := newAppointmentFixture()
	ctx := context.Background()
	a, err := f.svc.Create(ctx, adminCaller, f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, a.ID); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Errorf("get after delete: expected not found, got %v", err)
	}
	if err := f.svc.Delete(ctx, a.ID); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
	if _, err := f.svc.Cancel(ctx, a.ID); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Errorf("cancel after delete: expected not found, got %v", err)
	}
}

func TestAppointmentService_UpdateNotes_RequiresOneField(t *testing.T) {
	f := newAppointmentFixture()
	_, err := f.svc.UpdateNotes(context.Background(), hexID(1), ports.UpdateNotesInput{})

	codes := fieldCodes(t, err)
	if codes["notes"] != validation.CodeRequired || codes["professionalNotes"] != validation.CodeRequired {
		t.Fatalf("expected both fields required, got %v", codes)
	}
}

func TestAppointmentService_UpdateNotes_MergesProvidedFields(t *testing.T) {
	f := newAppointmentFixture()
	ctx := context.Background()
	in := f.input("2030-06-16T10:00:00Z", "2030-06-16T11:00:00Z")
	in.Notes = "original"
	a, err := f.svc.Create(ctx, adminCaller, in)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	proNotes := "bring x-rays"
	got, err := f.svc.UpdateNotes(ctx, a.ID, ports.UpdateNotesInput{ProfessionalNotes: &proNotes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Notes != "original" || got.ProfessionalNotes != "bring x-rays" {
		t.Errorf("unexpected merge result: notes=%q professionalNotes=%q", got.Notes, got.ProfessionalNotes)
	}
}

func TestAppointmentService_UpdateNotes_NotFound(t *testing.T) {
	f := newAppointmentFixture()
	notes := "x"
	_, err := f.svc.UpdateNotes(context.Background(), hexID(5), ports.UpdateNotesInput{Notes: &notes})
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

var discardLogger = zerolog.Nop()

var testNow = time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func newTestValidator() *validation.Validator {
	return validation.New(validation.WithClock(testClock))
}

// hexID builds a valid 24-char object id from a small number.
func hexID(n int) string {
	return fmt.Sprintf("%024x", n)
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

type stubAppointmentRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Appointment
	nextID  int
	listErr error
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{byID: make(map[string]*domain.Appointment), nextID: 1000}
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := *a
	clone.ID = hexID(r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAppointmentRepo) List(_ context.Context) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Appointment
	for _, a := range r.byID {
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

// FindOverlapping mirrors the Mongo query: live appointments of either party
// with start < end and end > start.
func (r *stubAppointmentRepo) FindOverlapping(_ context.Context, professionalID, patientID string, start, end time.Time) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.ProfessionalID != professionalID && a.PatientID != patientID {
			continue
		}
		if a.Blocks(start, end) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubAppointmentRepo) Cancel(_ context.Context, id string, at time.Time) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	a.Cancel(at)
	clone := *a
	return &clone, nil
}

func (r *stubAppointmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAppointmentRepo) UpdateNotes(_ context.Context, id string, notes, professionalNotes *string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	if notes != nil {
		a.Notes = *notes
	}
	if professionalNotes != nil {
		a.ProfessionalNotes = *professionalNotes
	}
	clone := *a
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Patients and professionals
// ---------------------------------------------------------------------------

type stubPatientRepo struct {
	byID      map[string]*domain.Patient
	nextID    int
	createErr error
	deleted   []string
}

func newStubPatientRepo() *stubPatientRepo {
	return &stubPatientRepo{byID: make(map[string]*domain.Patient), nextID: 2000}
}

func (r *stubPatientRepo) add(p *domain.Patient) *domain.Patient {
	r.nextID++
	if p.ID == "" {
		p.ID = hexID(r.nextID)
	}
	r.byID[p.ID] = p
	return p
}

func (r *stubPatientRepo) Create(_ context.Context, p *domain.Patient) (*domain.Patient, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *p
	r.add(&clone)
	out := clone
	return &out, nil
}

func (r *stubPatientRepo) FindByID(_ context.Context, id string) (*domain.Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPatientRepo) ListActive(_ context.Context) ([]*domain.Patient, error) {
	var out []*domain.Patient
	for _, p := range r.byID {
		if p.Active {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPatientRepo) Update(_ context.Context, p *domain.Patient) (*domain.Patient, error) {
	if _, ok := r.byID[p.ID]; !ok {
		return nil, domain.ErrPatientNotFound
	}
	clone := *p
	r.byID[p.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubPatientRepo) SetUserID(_ context.Context, id, userID string) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrPatientNotFound
	}
	p.UserID = userID
	return nil
}

func (r *stubPatientRepo) SetActive(_ context.Context, id string, active bool) (*domain.Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	p.Active = active
	clone := *p
	return &clone, nil
}

func (r *stubPatientRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubPatientRepo) Exists(_ context.Context, field, value, excludeID string) (bool, error) {
	for id, p := range r.byID {
		if id == excludeID {
			continue
		}
		var v string
		switch field {
		case "email":
			v = p.Email
		case "phone":
			v = p.Phone
		case "dni":
			v = p.DNI
		default:
			return false, errors.New("unknown field " + field)
		}
		if v == value {
			return true, nil
		}
	}
	return false, nil
}

type stubProfessionalRepo struct {
	byID    map[string]*domain.Professional
	nextID  int
	deleted []string
}

func newStubProfessionalRepo() *stubProfessionalRepo {
	return &stubProfessionalRepo{byID: make(map[string]*domain.Professional), nextID: 3000}
}

func (r *stubProfessionalRepo) add(p *domain.Professional) *domain.Professional {
	r.nextID++
	if p.ID == "" {
		p.ID = hexID(r.nextID)
	}
	r.byID[p.ID] = p
	return p
}

func (r *stubProfessionalRepo) Create(_ context.Context, p *domain.Professional) (*domain.Professional, error) {
	clone := *p
	r.add(&clone)
	out := clone
	return &out, nil
}

func (r *stubProfessionalRepo) FindByID(_ context.Context, id string) (*domain.Professional, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfessionalNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfessionalRepo) ListActive(_ context.Context) ([]*domain.Professional, error) {
	var out []*domain.Professional
	for _, p := range r.byID {
		if p.Active {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProfessionalRepo) Update(_ context.Context, p *domain.Professional) (*domain.Professional, error) {
	clone := *p
	r.byID[p.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProfessionalRepo) SetUserID(_ context.Context, id, userID string) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProfessionalNotFound
	}
	p.UserID = userID
	return nil
}

func (r *stubProfessionalRepo) SetActive(_ context.Context, id string, active bool) (*domain.Professional, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProfessionalNotFound
	}
	p.Active = active
	clone := *p
	return &clone, nil
}

func (r *stubProfessionalRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubProfessionalRepo) Exists(_ context.Context, field, value, excludeID string) (bool, error) {
	for id, p := range r.byID {
		if id == excludeID {
			continue
		}
		if (field == "email" && p.Email == value) || (field == "dni" && p.DNI == value) {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	nextID    int
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User), nextID: 4000}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, &domain.DuplicateError{Field: "email"}
		}
	}
	r.nextID++
	clone := *u
	clone.ID = hexID(r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type stubLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	acquired [][]string
}

func newStubLocker() *stubLocker {
	return &stubLocker{held: make(map[string]bool)}
}

func (l *stubLocker) Acquire(_ context.Context, keys ...string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	for _, k := range keys {
		if l.held[k] {
			return nil, domain.ErrBookingInProgress
		}
	}
	for _, k := range keys {
		l.held[k] = true
	}
	l.acquired = append(l.acquired, keys)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for _, k := range keys {
			delete(l.held, k)
		}
	}, nil
}

type bookedCall struct {
	appointmentID string
	to            string
	lang          string
}

type stubNotifier struct {
	patientWelcomes      []string
	professionalWelcomes []string
	booked               []bookedCall
}

func (n *stubNotifier) PatientWelcome(_ context.Context, p *domain.Patient, _ string) {
	n.patientWelcomes = append(n.patientWelcomes, p.Email)
}

func (n *stubNotifier) ProfessionalWelcome(_ context.Context, p *domain.Professional, _ string) {
	n.professionalWelcomes = append(n.professionalWelcomes, p.Email)
}

func (n *stubNotifier) AppointmentBooked(_ context.Context, a *domain.Appointment, patient *domain.Patient, _ *domain.Professional, lang string) {
	n.booked = append(n.booked, bookedCall{appointmentID: a.ID, to: patient.Email, lang: lang})
}

type stubOutbox struct {
	jobs []ports.EmailJob
	err  error
}

func (o *stubOutbox) Publish(_ context.Context, job ports.EmailJob) error {
	if o.err != nil {
		return o.err
	}
	o.jobs = append(o.jobs, job)
	return nil
}

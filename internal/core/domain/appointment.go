package domain

import (
	"fmt"
	"time"
)

const MaxNotesLength = 500

// Party identifies which side of an appointment a conflict was found on.
type Party string

const (
	PartyProfessional Party = "professional"
	PartyPatient      Party = "patient"
)

// AppointmentStatus records cancellation. Cancelling never removes the record.
type AppointmentStatus struct {
	Cancelled bool       `json:"cancelled"`
	Timestamp *time.Time `json:"timestamp"`
}

// Appointment books a professional for a patient over [StartDate, EndDate).
type Appointment struct {
	ID                string            `json:"id"`
	ProfessionalID    string            `json:"professionalId"`
	PatientID         string            `json:"patientId"`
	StartDate         time.Time         `json:"startDate"`
	EndDate           time.Time         `json:"endDate"`
	Notes             string            `json:"notes"`
	ProfessionalNotes string            `json:"professionalNotes"`
	Status            AppointmentStatus `json:"status"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// Overlaps applies the half-open interval test: a.start < b.end && a.end > b.start.
// Back-to-back slots (one ends exactly when the next starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Blocks reports whether a live appointment occupies any part of [start, end).
func (a *Appointment) Blocks(start, end time.Time) bool {
	return !a.Status.Cancelled && Overlaps(a.StartDate, a.EndDate, start, end)
}

// Cancel marks the appointment cancelled. Calling it again keeps the first timestamp.
func (a *Appointment) Cancel(now time.Time) {
	if a.Status.Cancelled {
		return
	}
	a.Status = AppointmentStatus{Cancelled: true, Timestamp: &now}
}

// ConflictError is returned when a new appointment would overlap a live one.
type ConflictError struct {
	Party         Party
	AppointmentID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("appointment conflict: %s already booked (%s)", e.Party, e.AppointmentID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrAppointmentConflict
}

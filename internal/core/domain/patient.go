package domain

import "time"

const (
	GenderMale      = "male"
	GenderFemale    = "female"
	GenderNonBinary = "non-binary"
)

// Patient is a person receiving care. Patients are never removed; Active
// flips to false instead so appointment history keeps its references.
type Patient struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	DNI              string    `json:"dni"`
	BirthDate        time.Time `json:"birthDate"`
	Gender           string    `json:"gender"`
	Street           string    `json:"street"`
	City             string    `json:"city"`
	PostalCode       string    `json:"postalCode"`
	Nationality      string    `json:"nationality"`
	EmergencyContact string    `json:"emergencyContact"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	UserID           string    `json:"userId,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FullName returns "First Last".
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

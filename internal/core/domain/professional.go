package domain

import "time"

// Professional is a care provider bookable for appointments.
type Professional struct {
	ID                      string    `json:"id"`
	FirstName               string    `json:"firstName"`
	LastName                string    `json:"lastName"`
	Profession              string    `json:"profession"`
	Specialty               string    `json:"specialty,omitempty"`
	Email                   string    `json:"email"`
	DNI                     string    `json:"dni"`
	ProfessionLicenceNumber string    `json:"professionLicenceNumber,omitempty"`
	Color                   string    `json:"color"`
	ImageURL                string    `json:"imageUrl,omitempty"`
	UserID                  string    `json:"userId,omitempty"`
	Active                  bool      `json:"active"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

func (p *Professional) FullName() string {
	return p.FirstName + " " + p.LastName
}

package domain

import (
	"time"

	"github.com/goccy/go-json"
)

const (
	RoleAdmin        = "admin"
	RoleProfessional = "professional"
	RolePatient      = "patient"
)

// ProfileKind discriminates which collection a user's profile lives in.
type ProfileKind string

const (
	ProfilePatient      ProfileKind = "Patient"
	ProfileProfessional ProfileKind = "Professional"
)

// ProfileRef links a User to its Patient or Professional document.
// Admin accounts carry no profile.
type ProfileRef struct {
	Kind ProfileKind
	ID   string
}

// User models a credential holder. PasswordHash never leaves the process.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	Profile      *ProfileRef `json:"-"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ProfileID returns the linked profile id, or "" for admin accounts.
func (u *User) ProfileID() string {
	if u == nil || u.Profile == nil {
		return ""
	}
	return u.Profile.ID
}

// MarshalJSON exposes the linked profile id, null for admin accounts.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		ProfileID *string   `json:"profileId"`
		IsActive  bool      `json:"isActive"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}{u.ID, u.Email, u.Role, optionalID(u.ProfileID()), u.IsActive, u.CreatedAt, u.UpdatedAt})
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// ProfileKindForRole maps an account role to the profile collection it owns.
func ProfileKindForRole(role string) (ProfileKind, bool) {
	switch role {
	case RolePatient:
		return ProfilePatient, true
	case RoleProfessional:
		return ProfileProfessional, true
	default:
		return "", false
	}
}

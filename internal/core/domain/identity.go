package domain

import "github.com/goccy/go-json"

// Identity is the caller resolved from a bearer token. Profile is nil for
// admins and for accounts whose profile document could not be found.
type Identity struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ProfileID string `json:"-"`
	Profile   any    `json:"profile"`
}

// MarshalJSON always emits profileId, as null for accounts without a profile.
func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UserID    string  `json:"id"`
		Email     string  `json:"email"`
		Role      string  `json:"role"`
		ProfileID *string `json:"profileId"`
		Profile   any     `json:"profile"`
	}{i.UserID, i.Email, i.Role, optionalID(i.ProfileID), i.Profile})
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// HasRole reports whether the caller holds any of roles.
func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// CanActOnProfile is the own-or-admin rule: admins and passRoles always pass;
// any other role passes only when its own profile is the target.
func (i Identity) CanActOnProfile(resourceID string, passRoles ...string) bool {
	if i.IsAdmin() || i.HasRole(passRoles...) {
		return true
	}
	return i.ProfileID != "" && i.ProfileID == resourceID
}

// CanAccessAppointment is the ownership rule for a single appointment.
// The caller must already have looked up the appointment's patient.
func (i Identity) CanAccessAppointment(appointmentPatientID string, passRoles ...string) bool {
	return i.CanActOnProfile(appointmentPatientID, passRoles...)
}

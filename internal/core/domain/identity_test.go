package domain

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestIdentity_CanActOnProfile(t *testing.T) {
	tests := []struct {
		name      string
		id        Identity
		resource  string
		passRoles []string
		want      bool
	}{
		{"admin always", Identity{Role: RoleAdmin}, "p1", nil, true},
		{"pass role", Identity{Role: RoleProfessional, ProfileID: "x"}, "p1", []string{RoleProfessional}, true},
		{"professional without pass", Identity{Role: RoleProfessional, ProfileID: "x"}, "p1", nil, false},
		{"own patient", Identity{Role: RolePatient, ProfileID: "p1"}, "p1", []string{RoleProfessional}, true},
		{"other patient", Identity{Role: RolePatient, ProfileID: "p2"}, "p1", []string{RoleProfessional}, false},
		{"patient without profile", Identity{Role: RolePatient}, "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.CanActOnProfile(tt.resource, tt.passRoles...); got != tt.want {
				t.Errorf("CanActOnProfile = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentity_JSONProfileID(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want string
	}{
		{"admin", Identity{UserID: "u1", Role: RoleAdmin}, `"profileId":null`},
		{"patient", Identity{UserID: "u2", Role: RolePatient, ProfileID: "p1"}, `"profileId":"p1"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.id)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if !strings.Contains(string(raw), tt.want) {
				t.Errorf("expected %s in %s", tt.want, raw)
			}
		})
	}
}

func TestUser_JSONHidesHashAndShowsProfileID(t *testing.T) {
	u := &User{ID: "u2", PasswordHash: "secret-hash", Role: RolePatient, Profile: &ProfileRef{Kind: ProfilePatient, ID: "p1"}}
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret-hash") {
		t.Errorf("password hash leaked: %s", raw)
	}
	if !strings.Contains(string(raw), `"profileId":"p1"`) {
		t.Errorf("expected profileId in %s", raw)
	}
}

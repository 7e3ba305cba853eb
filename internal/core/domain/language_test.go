package domain

import "testing"

func TestPickLanguage(t *testing.T) {
	tests := []struct {
		preferred, header, want string
	}{
		{"en", "es-ES", "en"},
		{"EN", "", "en"},
		{"en-GB", "", "en"},
		{"fr", "en-US,en;q=0.9", "en"},
		{"", "de-DE, es;q=0.8", "es"},
		{"", "es-MX", "es"},
		{"", "en;q=0.2, es;q=0.9", "es"},
		{"", "es;q=0.1, en", "en"},
		{"", "de-DE", "es"},
		{"", "not a tag;;", "es"},
		{"", "", "es"},
	}
	for _, tt := range tests {
		if got := PickLanguage(tt.preferred, tt.header); got != tt.want {
			t.Errorf("PickLanguage(%q, %q) = %q, want %q", tt.preferred, tt.header, got, tt.want)
		}
	}
}

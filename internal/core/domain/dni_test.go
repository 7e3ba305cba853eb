package domain

import "testing"

func TestValidDNI(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"12345678Z", true},
		{"12345678z", true},
		{"  12345678Z ", true},
		{"00000000T", true},
		{"12345678A", false},
		{"X1234567L", true},
		{"Y1234567X", true},
		{"Z1234567R", true},
		{"X1234567A", false},
		{"W1234567L", false},
		{"1234567Z", false},
		{"123456789", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidDNI(tt.in); got != tt.want {
			t.Errorf("ValidDNI(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDNI(t *testing.T) {
	if got := NormalizeDNI(" x1234567l "); got != "X1234567L" {
		t.Fatalf("expected X1234567L, got %q", got)
	}
}

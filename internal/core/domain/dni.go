package domain

import (
	"regexp"
	"strconv"
	"strings"
)

const dniLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

var (
	dniPattern = regexp.MustCompile(`^[0-9]{8}[A-Z]$`)
	niePattern = regexp.MustCompile(`^[XYZ][0-9]{7}[A-Z]$`)
)

// NormalizeDNI upper-cases and trims a national or foreign-resident id.
func NormalizeDNI(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidDNI checks a Spanish DNI (8 digits + letter) or NIE (X/Y/Z + 7 digits
// + letter). The control letter is dniLetters[number mod 23]; for a NIE the
// prefix X, Y or Z stands for the leading digit 0, 1 or 2.
func ValidDNI(s string) bool {
	id := NormalizeDNI(s)

	switch {
	case dniPattern.MatchString(id):
	case niePattern.MatchString(id):
		id = string(rune('0'+strings.IndexByte("XYZ", id[0]))) + id[1:]
	default:
		return false
	}

	n, err := strconv.Atoi(id[:8])
	if err != nil {
		return false
	}
	return dniLetters[n%23] == id[8]
}

package validation

import (
	"html"
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

var (
	phonePattern          = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	emergencyPhonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)
	postalCodePattern     = regexp.MustCompile(`^\d{5}$`)
	personNamePattern     = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñÇç\s]+$`)
	streetPattern         = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñÇç0-9\s.,ºª'\-/()#]+$`)
	cityPattern           = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñÇç\s'-]+$`)
	nationalityPattern    = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñÇç\s-]+$`)
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts the ISO 8601 forms clients send: full RFC 3339, local
// date-time without offset, or a bare date. Values without an offset are
// read in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (v *Validator) registerRules() {
	rules := map[string]validator.Func{
		"dni":            func(fl validator.FieldLevel) bool { return domain.ValidDNI(fl.Field().String()) },
		"phone":          matches(phonePattern),
		"emergencyphone": matches(emergencyPhonePattern),
		"postalcode":     matches(postalCodePattern),
		"personname":     matches(personNamePattern),
		"street":         matches(streetPattern),
		"city":           matches(cityPattern),
		"nationality":    matches(nationalityPattern),
		"iso8601":        v.isDate,
		"future":         v.isFuture,
		"past":           v.isPast,
		"after":          v.isAfter,
		"nohtml":         v.isPlainText,
	}
	for tag, fn := range rules {
		// Registration only fails on an empty tag or nil func.
		_ = v.v.RegisterValidation(tag, fn)
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Location is the zone used for dates that carry no UTC offset.
func (v *Validator) Location() *time.Location {
	return v.now().Location()
}

func (v *Validator) isDate(fl validator.FieldLevel) bool {
	_, ok := ParseDate(fl.Field().String(), v.Location())
	return ok
}

// isFuture rejects any earlier calendar day. On the current day the instant
// must be strictly after now; later days are unconstrained.
func (v *Validator) isFuture(fl validator.FieldLevel) bool {
	now := v.now()
	t, ok := ParseDate(fl.Field().String(), now.Location())
	if !ok {
		return true
	}

	t = t.In(now.Location())
	day := truncateDay(t)
	today := truncateDay(now)
	switch {
	case day.Before(today):
		return false
	case day.Equal(today):
		return t.After(now)
	default:
		return true
	}
}

func (v *Validator) isPast(fl validator.FieldLevel) bool {
	now := v.now()
	t, ok := ParseDate(fl.Field().String(), now.Location())
	return ok && t.Before(now)
}

// isAfter implements after=<GoFieldName>: the field must be strictly later
// than the named sibling. An unparsable sibling is left to its own rules.
func (v *Validator) isAfter(fl validator.FieldLevel) bool {
	parent := reflect.Indirect(fl.Parent())
	other := parent.FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}

	loc := v.Location()
	start, ok := ParseDate(other.String(), loc)
	if !ok {
		return true
	}
	end, ok := ParseDate(fl.Field().String(), loc)
	if !ok {
		return true
	}
	return end.After(start)
}

// isPlainText rejects input that markup stripping would change.
func (v *Validator) isPlainText(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return html.UnescapeString(v.html.Sanitize(s)) == s
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

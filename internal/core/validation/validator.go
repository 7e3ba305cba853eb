// Package validation runs declarative field rules over request structs and
// returns every violation at once as Errors.
//
// Rules are go-playground/validator tags. The code reported for a failed rule
// is resolved in this order: `required` always yields FORM_FIELDS_REQUIRED,
// rules in tagCodes yield their fixed code, anything else yields the field's
// `code:"..."` struct tag, falling back to FIELD_INVALID.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Validator is safe for concurrent use after construction.
type Validator struct {
	v    *validator.Validate
	now  func() time.Time
	html *bluemonday.Policy
}

type Option func(*Validator)

// WithClock overrides the time source used by the future/past rules.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

func New(opts ...Option) *Validator {
	val := &Validator{
		v:    validator.New(),
		now:  time.Now,
		html: bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(val)
	}

	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	val.registerRules()
	return val
}

// Struct validates s and returns Errors listing every failing field, nil when
// s is valid, or a plain error if s is not a struct.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(Errors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, toFieldError(t, fe))
	}
	return out
}

func toFieldError(t reflect.Type, fe validator.FieldError) FieldError {
	out := FieldError{Field: fe.Field(), Code: CodeInvalid}

	if code, ok := tagCodes[fe.Tag()]; ok {
		out.Code = code
	} else if sf, ok := t.FieldByName(fe.StructField()); ok {
		if code := sf.Tag.Get("code"); code != "" {
			out.Code = code
		}
	}

	switch fe.Tag() {
	case "min", "max", "len":
		if n, err := strconv.Atoi(fe.Param()); err == nil {
			out.Meta = map[string]any{fe.Tag(): n}
		}
	case "oneof":
		out.Meta = map[string]any{"allowed": strings.Fields(fe.Param())}
	}
	return out
}

// ID checks a path identifier. It returns Errors with ID_INVALID_FORMAT for
// anything that is not a 24-character hex object id.
func (v *Validator) ID(field, value string) error {
	if v.v.Var(value, "required,mongodb") != nil {
		return Errors{{Field: field, Code: CodeIDInvalid}}
	}
	return nil
}

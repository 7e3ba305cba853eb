package validation

import "strings"

// FieldError is one violated rule on one field. Code is a symbolic value
// from codes.go; Meta carries rule parameters such as length bounds.
type FieldError struct {
	Field string         `json:"field"`
	Code  string         `json:"code"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// Errors is the complete set of field violations for one request.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Code)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether field already carries an error.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Add appends a violation for field.
func (e Errors) Add(field, code string) Errors {
	return append(e, FieldError{Field: field, Code: code})
}

// Err returns e as an error, or nil when empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

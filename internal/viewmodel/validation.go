package viewmodel

import (
	"fmt"
	"strings"
)

// FieldError is a validation failure on one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Rule checks one field value and returns a message, or "" when valid.
type Rule struct {
	Field string
	Check func(value any) string
}

// Required fails on empty or whitespace-only strings.
func Required(field string) Rule {
	return Rule{
		Field: field,
		Check: func(value any) string {
			s, _ := value.(string)
			if strings.TrimSpace(s) == "" {
				return fmt.Sprintf("%s is required", field)
			}
			return ""
		},
	}
}

// MaxLength fails on strings longer than n runes.
func MaxLength(field string, n int) Rule {
	return Rule{
		Field: field,
		Check: func(value any) string {
			s, _ := value.(string)
			if len([]rune(s)) > n {
				return fmt.Sprintf("%s must be at most %d characters", field, n)
			}
			return ""
		},
	}
}

// Validator evaluates rules against a value source. With deferral on, it
// reports nothing until the first save attempt.
type Validator struct {
	rules     []Rule
	deferred  bool
	attempted bool
	errors    []FieldError
}

// NewValidator creates a validator.
func NewValidator(deferUntilFirstSave bool, rules ...Rule) *Validator {
	return &Validator{
		rules:    rules,
		deferred: deferUntilFirstSave,
	}
}

// Validate re-evaluates every rule using get to read field values.
func (v *Validator) Validate(get func(field string) any) []FieldError {
	var errs []FieldError
	for _, r := range v.rules {
		if msg := r.Check(get(r.Field)); msg != "" {
			errs = append(errs, FieldError{Field: r.Field, Message: msg})
		}
	}
	v.errors = errs
	return v.Errors()
}

// MarkSaveAttempted ends the deferral period.
func (v *Validator) MarkSaveAttempted() {
	v.attempted = true
}

// Active reports whether errors are currently reported.
func (v *Validator) Active() bool {
	return !v.deferred || v.attempted
}

// Errors returns the current errors, or nil while deferred.
func (v *Validator) Errors() []FieldError {
	if !v.Active() || len(v.errors) == 0 {
		return nil
	}
	out := make([]FieldError, len(v.errors))
	copy(out, v.errors)
	return out
}

// FieldErrors returns the current errors of one field.
func (v *Validator) FieldErrors(field string) []FieldError {
	var out []FieldError
	for _, e := range v.Errors() {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

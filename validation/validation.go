package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violations maps a form field name to a translation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// First returns the first violation following the given field order, then
// falling back to alphabetical order.
func (v Violations) First(order ...string) (field, code string) {
	for _, f := range order {
		if c, ok := v[f]; ok {
			return f, c
		}
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "", ""
	}
	return keys[0], v[keys[0]]
}

// Err returns nil when there are no violations.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &Error{Violations: v}
}

// Error is returned by services when input is rejected.
type Error struct {
	Violations Violations
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Violations))
	for k := range e.Violations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + e.Violations[k]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Fail builds an Error holding a single violation.
func Fail(field, code string) *Error {
	return &Error{Violations: Violations{field: code}}
}

// As extracts violations from err, if it carries any.
func As(err error) (Violations, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Violations, true
	}
	return nil, false
}

var emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	if !emailPattern.MatchString(value) {
		v[field] = "invalid_email"
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("emailpattern", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Struct checks the `validate` tags of s and reports violations keyed by the
// `form` tag of each field.
func Struct(s any) Violations {
	out := make(Violations)
	err := validate.Struct(s)
	if err == nil {
		return out
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out["_"] = "invalid"
		return out
	}
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = codeFor(fe.Tag())
		}
	}
	return out
}

func codeFor(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "emailpattern":
		return "invalid_email"
	case "min":
		return "too_short"
	case "max":
		return "too_long"
	case "oneof":
		return "invalid_choice"
	}
	return "invalid"
}

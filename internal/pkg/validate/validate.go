package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to its user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Rule binds a form field to validator tags. Message overrides the
// generated text for a given tag.
type Rule struct {
	Field   string
	Label   string
	Tags    string
	Message map[string]string
}

type Rules []Rule

func (rs Rules) Lookup(field string) (Rule, bool) {
	for _, r := range rs {
		if r.Field == field {
			return r, true
		}
	}
	return Rule{}, false
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Check runs every rule against values and returns nil when all pass.
// Values are trimmed before checking.
func (v *Validator) Check(rules Rules, values map[string]string) FieldErrors {
	out := FieldErrors{}
	for _, r := range rules {
		if msg := v.CheckField(r, values[r.Field]); msg != "" {
			out[r.Field] = msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CheckField validates a single value and returns its message, or "".
func (v *Validator) CheckField(r Rule, value string) string {
	if r.Tags == "" {
		return ""
	}
	err := v.v.Var(strings.TrimSpace(value), r.Tags)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return r.Label + " is invalid"
	}
	tag := verrs[0].Tag()
	if msg, ok := r.Message[tag]; ok {
		return msg
	}
	return message(r.Label, tag, verrs[0].Param())
}

func message(label, tag, param string) string {
	switch tag {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", label, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, param)
	case "url", "http_url":
		return "Invalid URL"
	case "email":
		return "Invalid email"
	case "numeric", "number":
		return label + " must be a number"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "datetime":
		return label + " must be a valid date (YYYY-MM-DD)"
	default:
		return label + " is invalid"
	}
}

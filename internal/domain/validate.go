package domain

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks request structs against their `validate` tags and reports
// failures as ErrValidation using JSON field names.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s. The returned error wraps ErrValidation and lists each
// failing field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	sort.Strings(msgs)
	return ValidationErrorf("%s", strings.Join(msgs, ", "))
}

// ValidateReport checks that the required fields of an event report are present
// and non-blank.
func (v *Validator) ValidateReport(req EventReportRequest) error {
	if err := v.Struct(req); err != nil {
		return err
	}
	blank := map[string]string{
		"eventType":    req.EventType,
		"severity":     req.Severity,
		"locationText": req.LocationText,
		"description":  req.Description,
	}
	var missing []string
	for field, val := range blank {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, field+" is required")
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return ValidationErrorf("%s", strings.Join(missing, ", "))
	}
	return nil
}

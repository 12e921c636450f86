// Package validation wraps go-playground/validator with the custom tags used
// by run options and configuration files.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Validator wraps go-playground/validator with project-specific tags.
type Validator struct {
	validator *validator.Validate
}

// New creates a validator with the custom tags registered:
//
//   - validator_name: lower-case kebab-case identifier ("code-compliance")
//   - report_format: "text" or "json"
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	_ = validate.RegisterValidation("validator_name", validateName)
	_ = validate.RegisterValidation("report_format", validateFormat)

	// Report yaml/mapstructure names so messages match what users write.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"mapstructure", "yaml", "json"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validator: validate}
}

var (
	defaultOnce sync.Once
	defaultV    *Validator
)

// Default returns a shared validator. go-playground validators cache struct
// metadata and are safe for concurrent use.
func Default() *Validator {
	defaultOnce.Do(func() { defaultV = New() })
	return defaultV
}

// Struct validates s and converts tag failures into a single readable error.
func (v *Validator) Struct(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validating")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.Newf("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof", "report_format":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, allowed(fe), fmt.Sprint(fe.Value()))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s, got %v", field, fe.Param(), fe.Value())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	case "validator_name":
		return fmt.Sprintf("%s: %q is not a valid validator name", field, fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

func allowed(fe validator.FieldError) string {
	if fe.Tag() == "report_format" {
		return "text json"
	}
	return fe.Param()
}

func validateName(fl validator.FieldLevel) bool {
	return namePattern.MatchString(fl.Field().String())
}

func validateFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "text", "json":
		return true
	default:
		return false
	}
}

// Package validator provides struct validation utilities with custom validators.
package validator

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stocklane/api/pkg/domain/tenant"
)

// permissionNameRegex validates permission wire names: lowercase ASCII
// module and action segments joined by underscores.
var permissionNameRegex = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)+$`)

// Validator wraps the go-playground validator with custom validations.
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range v {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return sb.String()
}

// New creates a new Validator with custom validators registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("tenant_code", validateTenantCode)
	_ = v.RegisterValidation("permission_name", validatePermissionName)

	return &Validator{validate: v}
}

// Validate validates a struct and returns structured field errors.
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if stderrors.As(err, &invalid) {
		return fmt.Errorf("invalid validation target: %w", err)
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "tenant_code":
		return "must contain only lowercase letters, numbers, and hyphens"
	case "permission_name":
		return "must match the <module>_<action> naming format"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func validateTenantCode(fl validator.FieldLevel) bool {
	return tenant.IsValidCode(fl.Field().String())
}

func validatePermissionName(fl validator.FieldLevel) bool {
	return permissionNameRegex.MatchString(fl.Field().String())
}

package accesscontrol

import (
	"errors"
	"fmt"

	"github.com/stocklane/api/pkg/domain/shared"
)

// ForbiddenError is returned by Authorize when a required permission is
// missing. It carries the missing permission name for logging and
// actionable error messages; user-facing responses stay generic.
type ForbiddenError struct {
	Permission string
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: missing permission %q", e.Permission)
}

// Unwrap makes the error match shared.ErrForbidden.
func (e *ForbiddenError) Unwrap() error {
	return shared.ErrForbidden
}

// MissingPermission extracts the missing permission name from an error
// chain, empty string if the error is not a ForbiddenError.
func MissingPermission(err error) string {
	var fe *ForbiddenError
	if errors.As(err, &fe) {
		return fe.Permission
	}
	return ""
}

package app

import (
	"errors"
	"fmt"

	"boca-cli/internal/access"
	"boca-cli/internal/boca"
	"boca-cli/internal/setup"
)

// ErrConfigNotFound is returned when neither the setup file nor its local
// override exist.
var ErrConfigNotFound = errors.New("config file not found")

// PermissionError is returned when a role may not run a method.
type PermissionError struct {
	Role     access.Role
	Category access.Category
	Method   access.Method
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s may not run %s (%s)", e.Role, e.Method, e.Category)
}

const (
	ExitOk = iota
	ExitUnexpected
	ExitConfigNotFound
	ExitValidation
	ExitAuth
	ExitResource
	ExitPermission
)

// ExitCode maps an invocation error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOk
	}

	var (
		schemaErr     *setup.SchemaError
		authErr       *boca.AuthError
		resourceErr   *boca.ResourceError
		permissionErr *PermissionError
	)
	switch {
	case errors.Is(err, ErrConfigNotFound):
		return ExitConfigNotFound
	case errors.As(err, &schemaErr):
		return ExitValidation
	case errors.As(err, &authErr):
		return ExitAuth
	case errors.As(err, &resourceErr):
		return ExitResource
	case errors.As(err, &permissionErr), errors.Is(err, access.ErrNoMethods):
		return ExitPermission
	}
	return ExitUnexpected
}

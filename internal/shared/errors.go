package shared

import "fmt"

var (
	// Domain errors
	ErrValidation       = fmt.Errorf("validation failed")
	ErrNotFound         = fmt.Errorf("not found")
	ErrNotAuthorized    = fmt.Errorf("not authorized")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrDuplicate        = fmt.Errorf("already exists")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// External service errors
	ErrExternalService    = fmt.Errorf("external service failure")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

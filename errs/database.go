package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
)

// Document store errors. Store backends wrap driver errors with one of these
// so callers can classify them without knowing the backend.
var (
	ErrStoreUnavailable = errors.New("document store unavailable")
	ErrPermissionDenied = errors.New("document store permission denied")
	ErrStoreIO          = errors.New("document store I/O error")
	ErrInvalidPath      = errors.New("invalid document path")
)

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	switch {
	case cause == nil:
	case errors.Is(cause, ErrNotFound):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s %w", entity, ErrNotFound),
			Details:    details,
			Cause:      cause,
		}
	case errors.Is(cause, ErrValidation):
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        fmt.Errorf("invalid %s: %w", entity, ErrValidation),
			Details:    strings.TrimSpace(cause.Error()),
			Cause:      cause,
		}
	case errors.Is(cause, ErrStoreUnavailable):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrStoreUnavailable,
			Details:    details,
			Cause:      cause,
		}
	case errors.Is(cause, ErrPermissionDenied):
		return &ApiErr{
			StatusCode: http.StatusForbidden,
			err:        ErrPermissionDenied,
			Details:    details,
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStoreIO,
		Details:    details,
		Cause:      cause,
	}
}

func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsStoreIO(err error) bool {
	return errors.Is(err, ErrStoreIO)
}

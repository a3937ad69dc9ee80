package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Adapters wrap their failures with one of these so callers can
// classify an error with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrDataAccess   = errors.New("data access error")
	ErrNewsProvider = errors.New("news provider error")
	ErrPersistence  = errors.New("persistence error")
)

// InvalidYearMessage is the client-facing text for a rejected risk year.
const InvalidYearMessage = "Invalid Year Selection Must be multiple of 5"

// ErrInvalidYear is returned when a risk query year is not a multiple of 5.
var ErrInvalidYear = fmt.Errorf("%w: %s", ErrValidation, InvalidYearMessage)

// ValidationErrorf builds an error of kind ErrValidation.
func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// DataAccessError wraps err as ErrDataAccess. A nil err yields nil.
func DataAccessError(op string, err error) error {
	return wrapKind(ErrDataAccess, op, err)
}

// NewsProviderError wraps err as ErrNewsProvider. A nil err yields nil.
func NewsProviderError(op string, err error) error {
	return wrapKind(ErrNewsProvider, op, err)
}

// PersistenceError wraps err as ErrPersistence. A nil err yields nil.
func PersistenceError(op string, err error) error {
	return wrapKind(ErrPersistence, op, err)
}

func wrapKind(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", kind, op, err)
}

// KindOf returns a short label for the error's kind, for logs and metrics.
func KindOf(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDataAccess):
		return "data_access"
	case errors.Is(err, ErrNewsProvider):
		return "news_provider"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}

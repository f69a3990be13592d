package api

import (
	"errors"
	"net/http"

	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/service"
	"github.com/memodrop/braindump/internal/service/auth"
	"github.com/memodrop/braindump/internal/service/braindump"
	"github.com/memodrop/braindump/internal/service/sharing"
	"github.com/memodrop/braindump/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, braindump.ErrCategoryNotFound),
		errors.Is(err, braindump.ErrPlacementNotFound),
		errors.Is(err, sharing.ErrCategoryNotFound),
		errors.Is(err, sharing.ErrContractNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, domain.ErrContractCannotBeAccepted),
		errors.Is(err, domain.ErrContractCannotBeDeclined),
		errors.Is(err, domain.ErrContractCannotBeRevoked),
		errors.Is(err, domain.ErrContractAlreadyRevoked):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, braindump.ErrInvalidRange),
		errors.Is(err, braindump.ErrPostponeTooLong),
		errors.Is(err, domain.ErrInvalidArea),
		errors.Is(err, sharing.ErrSelfShare),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"

	// Not found errors
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, braindump.ErrCategoryNotFound),
		errors.Is(err, sharing.ErrCategoryNotFound):
		return "Category not found"

	case errors.Is(err, service.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, braindump.ErrPlacementNotFound):
		return "Card placement not found"

	case errors.Is(err, sharing.ErrContractNotFound):
		return "Share contract not found"

	// Conflict errors
	case errors.Is(err, service.ErrUsernameTaken):
		return "Username already taken"

	case errors.Is(err, domain.ErrContractCannotBeAccepted):
		return "Share contract cannot be accepted in its current state"

	case errors.Is(err, domain.ErrContractCannotBeDeclined):
		return "Share contract cannot be declined in its current state"

	case errors.Is(err, domain.ErrContractCannotBeRevoked),
		errors.Is(err, domain.ErrContractAlreadyRevoked):
		return "Share contract cannot be revoked in its current state"

	// Bad request errors
	case errors.Is(err, braindump.ErrInvalidRange):
		return "Invalid area range"

	case errors.Is(err, braindump.ErrPostponeTooLong):
		return "Postpone duration exceeds the maximum"

	case errors.Is(err, domain.ErrInvalidArea):
		return "Area must be between 1 and 6"

	case errors.Is(err, sharing.ErrSelfShare):
		return "Cannot share a category with yourself"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

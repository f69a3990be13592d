package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store, or is not visible to the requesting user. This is the generic
	// version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate of
	// a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or references a row that does not exist.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrCategoryNotFound indicates that the requested category does not
	// exist or is not visible to the requesting user.
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)

	// ErrCardNotFound indicates that the requested card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrPlacementNotFound indicates that the requested card placement does
	// not exist or does not belong to the requesting user.
	ErrPlacementNotFound = fmt.Errorf("%w: card placement", ErrNotFound)

	// ErrContractNotFound indicates that the requested share contract does
	// not exist or is not visible to the requesting user.
	ErrContractNotFound = fmt.Errorf("%w: share contract", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUsernameExists indicates that a user with the given username
	// already exists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrDuplicatePlacement indicates that a placement for the (card, user)
	// pair already exists.
	ErrDuplicatePlacement = fmt.Errorf("%w: card placement", ErrDuplicate)

	// ErrDuplicateContract indicates that a share contract for the
	// (category, user) pair already exists.
	ErrDuplicateContract = fmt.Errorf("%w: share contract", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContractState is the lifecycle state of a share contract.
//
// Workflow:
//
//	requested -> accepted -> revoked -> (deleted after migration)
//	requested -> declined  -> (deleted immediately)
type ContractState string

// Possible contract states. Declined contracts are deleted rather than
// stored, so there is no declined state.
const (
	ContractStateRequested ContractState = "requested"
	ContractStateAccepted  ContractState = "accepted"
	ContractStateRevoked   ContractState = "revoked"
)

// ShareContract workflow errors
var (
	// ErrContractCannotBeAccepted is returned when accepting a contract that
	// has already been accepted or revoked.
	ErrContractCannotBeAccepted = errors.New("share contract cannot be accepted")

	// ErrContractCannotBeDeclined is returned when declining a contract that
	// has already been accepted or revoked.
	ErrContractCannotBeDeclined = errors.New("share contract cannot be declined")

	// ErrContractCannotBeRevoked is returned when revoking a contract that
	// has not been accepted.
	ErrContractCannotBeRevoked = errors.New("share contract cannot be revoked")

	// ErrContractAlreadyRevoked is returned when revoking a contract twice.
	ErrContractAlreadyRevoked = errors.New("share contract already revoked")
)

// ShareContract validation errors
var (
	// ErrContractIDEmpty is returned when a contract ID is empty or nil.
	ErrContractIDEmpty = errors.New("share contract ID cannot be empty")

	// ErrContractCategoryEmpty is returned when a contract's category ID is empty or nil.
	ErrContractCategoryEmpty = errors.New("share contract category ID cannot be empty")

	// ErrContractUserEmpty is returned when a contract's user ID is empty or nil.
	ErrContractUserEmpty = errors.New("share contract user ID cannot be empty")

	// ErrInvalidContractState is returned when a contract's state is unknown.
	ErrInvalidContractState = errors.New("invalid share contract state")
)

// ShareContract grants one user access to another user's category. The
// category owner creates and revokes contracts; the target user accepts or
// declines them. There is at most one contract per (category, user) pair.
type ShareContract struct {
	ID         uuid.UUID     `json:"id"`
	CategoryID uuid.UUID     `json:"category_id"`
	UserID     uuid.UUID     `json:"user_id"`
	State      ContractState `json:"state"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NewShareContract creates a requested contract for the given category and
// target user.
func NewShareContract(categoryID, userID uuid.UUID) (*ShareContract, error) {
	now := time.Now().UTC()
	contract := &ShareContract{
		ID:         uuid.New(),
		CategoryID: categoryID,
		UserID:     userID,
		State:      ContractStateRequested,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := contract.Validate(); err != nil {
		return nil, err
	}

	return contract, nil
}

// Validate checks if the ShareContract has valid data.
func (s *ShareContract) Validate() error {
	if s.ID == uuid.Nil {
		return ErrContractIDEmpty
	}

	if s.CategoryID == uuid.Nil {
		return ErrContractCategoryEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrContractUserEmpty
	}

	switch s.State {
	case ContractStateRequested, ContractStateAccepted, ContractStateRevoked:
	default:
		return ErrInvalidContractState
	}

	return nil
}

// Accept transitions the contract from requested to accepted.
func (s *ShareContract) Accept() error {
	if s.State != ContractStateRequested {
		return ErrContractCannotBeAccepted
	}
	s.State = ContractStateAccepted
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Decline verifies the contract may be declined. Declined contracts are
// deleted by the caller; there is no stored declined state.
func (s *ShareContract) Decline() error {
	if s.State != ContractStateRequested {
		return ErrContractCannotBeDeclined
	}
	return nil
}

// Revoke transitions the contract from accepted to revoked.
func (s *ShareContract) Revoke() error {
	switch s.State {
	case ContractStateRequested:
		return ErrContractCannotBeRevoked
	case ContractStateRevoked:
		return ErrContractAlreadyRevoked
	}
	s.State = ContractStateRevoked
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Accepted reports whether the contract currently grants access.
func (s *ShareContract) Accepted() bool {
	return s.State == ContractStateAccepted
}

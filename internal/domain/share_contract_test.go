package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShareContract(t *testing.T) {
	t.Parallel()

	contract, err := NewShareContract(uuid.New(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, ContractStateRequested, contract.State)
	assert.False(t, contract.Accepted())
}

func TestShareContractAccept(t *testing.T) {
	t.Parallel()

	contract, err := NewShareContract(uuid.New(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, contract.Accept())
	assert.Equal(t, ContractStateAccepted, contract.State)
	assert.True(t, contract.Accepted())

	// A second accept is a state conflict.
	assert.ErrorIs(t, contract.Accept(), ErrContractCannotBeAccepted)
}

func TestShareContractDecline(t *testing.T) {
	t.Parallel()

	contract, err := NewShareContract(uuid.New(), uuid.New())
	require.NoError(t, err)

	assert.NoError(t, contract.Decline())

	require.NoError(t, contract.Accept())
	assert.ErrorIs(t, contract.Decline(), ErrContractCannotBeDeclined)
}

func TestShareContractRevoke(t *testing.T) {
	t.Parallel()

	contract, err := NewShareContract(uuid.New(), uuid.New())
	require.NoError(t, err)

	// A requested contract cannot be revoked.
	assert.ErrorIs(t, contract.Revoke(), ErrContractCannotBeRevoked)

	require.NoError(t, contract.Accept())
	require.NoError(t, contract.Revoke())
	assert.Equal(t, ContractStateRevoked, contract.State)
	assert.False(t, contract.Accepted())

	assert.ErrorIs(t, contract.Revoke(), ErrContractAlreadyRevoked)
}

func TestShareContractRevokedCannotBeAcceptedOrDeclined(t *testing.T) {
	t.Parallel()

	contract, err := NewShareContract(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, contract.Accept())
	require.NoError(t, contract.Revoke())

	assert.ErrorIs(t, contract.Accept(), ErrContractCannotBeAccepted)
	assert.ErrorIs(t, contract.Decline(), ErrContractCannotBeDeclined)
}

package sharing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/mocks"
	"github.com/memodrop/braindump/internal/service/sharing"
	"github.com/memodrop/braindump/internal/task"
)

type fixture struct {
	svc       sharing.Service
	users     *mocks.MockUserStore
	contracts *mocks.MockShareContractStore
	emitter   *mocks.MockEventEmitter

	owner      *domain.User
	target     *domain.User
	categoryID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	users := mocks.NewMockUserStore()
	categories := mocks.NewMockCategoryStore()
	contracts := mocks.NewMockShareContractStore()
	contracts.Categories = categories
	categories.Contracts = contracts
	emitter := mocks.NewMockEventEmitter()

	owner, err := domain.NewUser("owner", "hashed-password-owner")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, owner))

	target, err := domain.NewUser("friend", "hashed-password-friend")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, target))

	category, err := domain.NewCategory(owner.ID, "Mushrooms", "", domain.ReviewModeStrict)
	require.NoError(t, err)
	require.NoError(t, categories.Create(ctx, category))

	svc, err := sharing.NewService(users, categories, contracts, emitter, nil)
	require.NoError(t, err)

	return &fixture{
		svc:        svc,
		users:      users,
		contracts:  contracts,
		emitter:    emitter,
		owner:      owner,
		target:     target,
		categoryID: category.ID,
	}
}

// requestedContract creates a pending contract through the service and
// returns it.
func (f *fixture) requestedContract(t *testing.T) *domain.ShareContract {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.svc.Request(ctx, f.categoryID, f.owner.ID, f.target.Username))
	for _, contract := range f.contracts.Contracts {
		return contract
	}
	t.Fatal("request did not create a contract")
	return nil
}

func TestRequestCreatesContract(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	contract := f.requestedContract(t)
	assert.Equal(t, f.categoryID, contract.CategoryID)
	assert.Equal(t, f.target.ID, contract.UserID)
	assert.Equal(t, domain.ContractStateRequested, contract.State)
}

func TestRequestUnknownUsernameLooksSuccessful(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	// A missing user must be indistinguishable from a successful request,
	// otherwise the endpoint doubles as a username oracle.
	err := f.svc.Request(context.Background(), f.categoryID, f.owner.ID, "nobody")
	assert.NoError(t, err)
	assert.Empty(t, f.contracts.Contracts)
}

func TestRequestDuplicateLooksSuccessful(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.requestedContract(t)
	err := f.svc.Request(context.Background(), f.categoryID, f.owner.ID, f.target.Username)
	assert.NoError(t, err)
	assert.Len(t, f.contracts.Contracts, 1)
}

func TestRequestSelfShare(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	err := f.svc.Request(context.Background(), f.categoryID, f.owner.ID, f.owner.Username)
	assert.ErrorIs(t, err, sharing.ErrSelfShare)
	assert.Empty(t, f.contracts.Contracts)
}

func TestRequestRequiresOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	err := f.svc.Request(context.Background(), f.categoryID, f.target.ID, f.target.Username)
	assert.ErrorIs(t, err, sharing.ErrCategoryNotFound)

	err = f.svc.Request(context.Background(), uuid.New(), f.owner.ID, f.target.Username)
	assert.ErrorIs(t, err, sharing.ErrCategoryNotFound)
}

func TestAcceptEmitsFanOutTask(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)

	require.NoError(t, f.svc.Accept(context.Background(), contract.ID, f.target.ID))
	assert.Equal(t, domain.ContractStateAccepted, contract.State)

	emitted := f.emitter.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, task.TaskTypeShareAccept, emitted[0].Type)

	var payload struct {
		ContractID uuid.UUID `json:"contract_id"`
	}
	require.NoError(t, emitted[0].UnmarshalPayload(&payload))
	assert.Equal(t, contract.ID, payload.ContractID)
}

func TestAcceptOnlyByTargetUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)

	err := f.svc.Accept(context.Background(), contract.ID, f.owner.ID)
	assert.ErrorIs(t, err, sharing.ErrContractNotFound)
	assert.Equal(t, domain.ContractStateRequested, contract.State)
}

func TestAcceptTwice(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)

	require.NoError(t, f.svc.Accept(context.Background(), contract.ID, f.target.ID))
	err := f.svc.Accept(context.Background(), contract.ID, f.target.ID)
	assert.ErrorIs(t, err, domain.ErrContractCannotBeAccepted)
	assert.Len(t, f.emitter.Events(), 1)
}

func TestDeclineDeletesContract(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)

	require.NoError(t, f.svc.Decline(context.Background(), contract.ID, f.target.ID))
	assert.Empty(t, f.contracts.Contracts)
	assert.Empty(t, f.emitter.Events(), "declining must not start any background work")
}

func TestDeclineAcceptedContract(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)

	require.NoError(t, f.svc.Accept(context.Background(), contract.ID, f.target.ID))
	err := f.svc.Decline(context.Background(), contract.ID, f.target.ID)
	assert.ErrorIs(t, err, domain.ErrContractCannotBeDeclined)
	assert.Len(t, f.contracts.Contracts, 1)
}

func TestRevokeEmitsMigrationTask(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)
	require.NoError(t, f.svc.Accept(context.Background(), contract.ID, f.target.ID))

	require.NoError(t, f.svc.Revoke(context.Background(), contract.ID, f.owner.ID))
	assert.Equal(t, domain.ContractStateRevoked, contract.State)

	emitted := f.emitter.Events()
	require.Len(t, emitted, 2)
	assert.Equal(t, task.TaskTypeShareRevoke, emitted[1].Type)
}

func TestRevokeOnlyByOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)
	require.NoError(t, f.svc.Accept(context.Background(), contract.ID, f.target.ID))

	err := f.svc.Revoke(context.Background(), contract.ID, f.target.ID)
	assert.ErrorIs(t, err, sharing.ErrContractNotFound)
}

func TestRevokeRequestedContract(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)

	err := f.svc.Revoke(context.Background(), contract.ID, f.owner.ID)
	assert.ErrorIs(t, err, domain.ErrContractCannotBeRevoked)
}

func TestRevokeTwice(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)
	require.NoError(t, f.svc.Accept(context.Background(), contract.ID, f.target.ID))
	require.NoError(t, f.svc.Revoke(context.Background(), contract.ID, f.owner.ID))

	err := f.svc.Revoke(context.Background(), contract.ID, f.owner.ID)
	assert.ErrorIs(t, err, domain.ErrContractAlreadyRevoked)
}

func TestListPending(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	contract := f.requestedContract(t)

	pending, err := f.svc.ListPending(context.Background(), f.target.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, contract.ID, pending[0].ID)

	// Accepted contracts drop off the pending list.
	require.NoError(t, f.svc.Accept(context.Background(), contract.ID, f.target.ID))
	pending, err = f.svc.ListPending(context.Background(), f.target.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestListForCategory(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.requestedContract(t)

	contracts, err := f.svc.ListForCategory(context.Background(), f.categoryID, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, contracts, 1)

	_, err = f.svc.ListForCategory(context.Background(), f.categoryID, f.target.ID)
	assert.ErrorIs(t, err, sharing.ErrCategoryNotFound)
}

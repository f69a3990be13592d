package task_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memodrop/braindump/internal/domain"
	"github.com/memodrop/braindump/internal/mocks"
	"github.com/memodrop/braindump/internal/task"
)

// shareFixture holds a shared category with cards, the owner's placements,
// and a contract between the owner's category and a second user.
type shareFixture struct {
	stores     task.ShareStores
	categories *mocks.MockCategoryStore
	cards      *mocks.MockCardStore
	placements *mocks.MockPlacementStore
	contracts  *mocks.MockShareContractStore

	ownerID  uuid.UUID
	userID   uuid.UUID
	category *domain.Category
	contract *domain.ShareContract
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newShareFixture(t *testing.T, cardCount int) *shareFixture {
	t.Helper()
	ctx := context.Background()

	categories := mocks.NewMockCategoryStore()
	cards := mocks.NewMockCardStore()
	placements := mocks.NewMockPlacementStore()
	placements.Cards = cards
	contracts := mocks.NewMockShareContractStore()
	contracts.Categories = categories
	categories.Contracts = contracts

	ownerID := uuid.New()
	userID := uuid.New()

	category, err := domain.NewCategory(ownerID, "Spanish verbs", "", domain.ReviewModeDefensive)
	require.NoError(t, err)
	require.NoError(t, categories.Create(ctx, category))

	for i := 0; i < cardCount; i++ {
		card, err := domain.NewCard(category.ID, "question", "answer", "")
		require.NoError(t, err)
		require.NoError(t, cards.Create(ctx, card))

		placement, err := domain.NewCardPlacement(card.ID, ownerID)
		require.NoError(t, err)
		require.NoError(t, placements.Create(ctx, placement))
	}

	contract, err := domain.NewShareContract(category.ID, userID)
	require.NoError(t, err)
	require.NoError(t, contracts.Create(ctx, contract))

	return &shareFixture{
		stores: task.ShareStores{
			Tx:         mocks.NewMockTxRunner(),
			Categories: categories,
			Cards:      cards,
			Placements: placements,
			Contracts:  contracts,
		},
		categories: categories,
		cards:      cards,
		placements: placements,
		contracts:  contracts,
		ownerID:    ownerID,
		userID:     userID,
		category:   category,
		contract:   contract,
	}
}

// userPlacements returns the placements belonging to the fixture's target user.
func (f *shareFixture) userPlacements() []*domain.CardPlacement {
	out := make([]*domain.CardPlacement, 0)
	for _, p := range f.placements.Placements {
		if p.UserID == f.userID {
			out = append(out, p)
		}
	}
	return out
}

func TestShareAcceptTaskFanOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShareFixture(t, 3)
	require.NoError(t, f.contract.Accept())

	acceptTask, err := task.NewShareAcceptTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)

	require.NoError(t, acceptTask.Execute(ctx))
	assert.Equal(t, task.TaskStatusCompleted, acceptTask.Status())

	placements := f.userPlacements()
	require.Len(t, placements, 3)
	for _, p := range placements {
		assert.Equal(t, 1, p.Area, "new placements start at the first area")
	}
}

func TestShareAcceptTaskRerunIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShareFixture(t, 3)
	require.NoError(t, f.contract.Accept())

	acceptTask, err := task.NewShareAcceptTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)
	require.NoError(t, acceptTask.Execute(ctx))

	// A crash between execute and the status update replays the task.
	rerun, err := task.NewShareAcceptTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)
	require.NoError(t, rerun.Execute(ctx))

	assert.Len(t, f.userPlacements(), 3, "re-running must not duplicate placements")
}

func TestShareAcceptTaskContractGone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShareFixture(t, 2)

	acceptTask, err := task.NewShareAcceptTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)

	require.NoError(t, f.contracts.Delete(ctx, f.contract.ID))

	require.NoError(t, acceptTask.Execute(ctx))
	assert.Equal(t, task.TaskStatusCompleted, acceptTask.Status())
	assert.Empty(t, f.userPlacements())
}

func TestShareAcceptTaskContractNotAccepted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShareFixture(t, 2)

	acceptTask, err := task.NewShareAcceptTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)

	// Contract is still in the requested state.
	require.NoError(t, acceptTask.Execute(ctx))
	assert.Equal(t, task.TaskStatusCompleted, acceptTask.Status())
	assert.Empty(t, f.userPlacements())
}

func TestShareRevokeTaskPreservesProgress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShareFixture(t, 2)
	require.NoError(t, f.contract.Accept())

	// Fan placements out, then push one of the user's cards up to area 4.
	acceptTask, err := task.NewShareAcceptTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)
	require.NoError(t, acceptTask.Execute(ctx))

	placements := f.userPlacements()
	require.Len(t, placements, 2)
	advanced := placements[0]
	require.NoError(t, advanced.SetArea(4))

	require.NoError(t, f.contract.Revoke())

	revokeTask, err := task.NewShareRevokeTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)
	require.NoError(t, revokeTask.Execute(ctx))
	assert.Equal(t, task.TaskStatusCompleted, revokeTask.Status())

	// The user now owns a private fork of the category.
	var fork *domain.Category
	for _, c := range f.categories.Categories {
		if c.OwnerID == f.userID {
			fork = c
		}
	}
	require.NotNil(t, fork, "revoke must create a category owned by the affected user")
	assert.Equal(t, f.category.Name, fork.Name)
	assert.Equal(t, f.category.Mode, fork.Mode)

	// Every card was copied into the fork.
	forkCards, err := f.cards.ListForCategory(ctx, fork.ID)
	require.NoError(t, err)
	assert.Len(t, forkCards, 2)

	// The user's placements moved onto the copies with progress intact.
	moved, err := f.placements.GetForCardAndUser(ctx, advanced.CardID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, advanced.ID, moved.ID)
	assert.Equal(t, 4, moved.Area, "review progress must survive the migration")

	forkCardIDs := map[uuid.UUID]bool{}
	for _, c := range forkCards {
		forkCardIDs[c.ID] = true
	}
	for _, p := range f.userPlacements() {
		assert.True(t, forkCardIDs[p.CardID], "user placements must point at fork cards")
	}

	// The contract is gone, and the owner keeps the original untouched.
	_, err = f.contracts.GetByID(ctx, f.contract.ID)
	assert.Error(t, err)
	originalCards, err := f.cards.ListForCategory(ctx, f.category.ID)
	require.NoError(t, err)
	assert.Len(t, originalCards, 2)
}

func TestShareRevokeTaskRerunIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShareFixture(t, 2)
	require.NoError(t, f.contract.Accept())

	acceptTask, err := task.NewShareAcceptTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)
	require.NoError(t, acceptTask.Execute(ctx))

	require.NoError(t, f.contract.Revoke())

	revokeTask, err := task.NewShareRevokeTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)
	require.NoError(t, revokeTask.Execute(ctx))

	// A replayed task finds the contract gone and finishes without touching
	// anything.
	rerun, err := task.NewShareRevokeTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)
	require.NoError(t, rerun.Execute(ctx))
	assert.Equal(t, task.TaskStatusCompleted, rerun.Status())

	forkCount := 0
	for _, c := range f.categories.Categories {
		if c.OwnerID == f.userID {
			forkCount++
		}
	}
	assert.Equal(t, 1, forkCount, "re-running must not create a second fork")
	assert.Len(t, f.userPlacements(), 2)
}

func TestShareRevokeTaskContractNotRevoked(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShareFixture(t, 1)
	require.NoError(t, f.contract.Accept())

	revokeTask, err := task.NewShareRevokeTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)

	require.NoError(t, revokeTask.Execute(ctx))
	assert.Equal(t, task.TaskStatusCompleted, revokeTask.Status())

	// Still accepted, nothing migrated.
	contract, err := f.contracts.GetByID(ctx, f.contract.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStateAccepted, contract.State)
	assert.Len(t, f.categories.Categories, 1)
}

func TestShareRevokeTaskUserWithoutPlacements(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newShareFixture(t, 2)
	require.NoError(t, f.contract.Accept())

	// The fan-out never ran, so the user has no placements at all. The
	// migration still gives them a complete fork.
	require.NoError(t, f.contract.Revoke())

	revokeTask, err := task.NewShareRevokeTask(f.contract.ID, f.stores, testLogger())
	require.NoError(t, err)
	require.NoError(t, revokeTask.Execute(ctx))

	placements := f.userPlacements()
	require.Len(t, placements, 2)
	for _, p := range placements {
		assert.Equal(t, 1, p.Area)
	}
}

func TestNewShareTaskValidation(t *testing.T) {
	t.Parallel()
	f := newShareFixture(t, 0)

	_, err := task.NewShareAcceptTask(uuid.Nil, f.stores, testLogger())
	assert.ErrorIs(t, err, task.ErrEmptyContractID)

	_, err = task.NewShareAcceptTask(uuid.New(), task.ShareStores{}, testLogger())
	assert.ErrorIs(t, err, task.ErrNilStores)

	_, err = task.NewShareRevokeTask(uuid.New(), f.stores, nil)
	assert.ErrorIs(t, err, task.ErrNilLogger)
}

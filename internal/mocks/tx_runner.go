package mocks

import (
	"context"

	"github.com/memodrop/braindump/internal/store"
)

// MockTxRunner implements store.TxRunner without a database. The transaction
// function receives a nil *sql.Tx; paired with the store mocks, whose WithTx
// returns the mock itself, this lets transactional service code run in tests.
type MockTxRunner struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	// Calls counts how many transactions were started.
	Calls int
}

// Ensure MockTxRunner implements store.TxRunner
var _ store.TxRunner = (*MockTxRunner)(nil)

// NewMockTxRunner creates a new mock transaction runner.
func NewMockTxRunner() *MockTxRunner {
	return &MockTxRunner{}
}

// RunInTransaction implements the TxRunner interface.
func (m *MockTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, nil)
}

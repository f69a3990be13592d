// Package mocks provides centralized mock implementations for testing.
//
// Each store mock keeps its entities in maps and behaves like the real
// postgres store by default, including the sentinel errors from the store
// package. Function fields override individual methods when a test needs
// specific behavior:
//
//	users := mocks.NewMockUserStore()
//	users.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
//	    return nil, store.ErrUserNotFound
//	}
//
// WithTx on every mock returns the mock itself, and MockTxRunner invokes the
// transaction function directly with a nil *sql.Tx, so service code that runs
// inside transactions can be tested without a database.
package mocks

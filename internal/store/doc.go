// Package store defines the persistence interfaces the application depends
// on, along with shared store errors and transaction helpers.
//
// Every read interface is scoped to a requesting user where authorization
// matters: a store never returns an entity the given user is not allowed to
// see, so callers do not perform post-hoc ownership checks.
package store

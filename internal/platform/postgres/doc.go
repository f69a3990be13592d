// Package postgres contains the PostgreSQL implementations of the store
// interfaces. Every store accepts a store.DBTX so the same code runs against
// a plain connection pool or inside a transaction, and translates PostgreSQL
// constraint violations into the store package's sentinel errors.
package postgres

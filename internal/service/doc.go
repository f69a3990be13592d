// Package service contains the application services that orchestrate domain
// entities, stores, and background tasks. Services own transaction
// boundaries; stores never start transactions themselves.
package service

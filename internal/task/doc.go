// Package task implements durable background task processing: a worker pool
// fed by an in-memory queue, backed by a tasks table so unfinished work
// survives restarts, and the share workflow tasks that fan placements out on
// accept and fork a category on revoke.
package task

// Package storage provides persistence backends for the block rule set.
//
// Persistence is a scoped, blocking operation: the host loads once at
// startup and saves after each successful mutation and at shutdown. There
// is no background flushing and no write batching, so backends persist the
// whole snapshot at once.
//
// Two backends are provided: MemoryBackend for volatile sessions and tests,
// and SQLiteBackend for durable single-instance deployments.
package storage

// Package indexer reads sale initialization events from a squid indexer's
// PostgreSQL database.
//
// The indexer is a read-only collaborator: the latest row of
// sale_initialized_event by block number is the current sale. Nothing is
// written back.
package indexer

// Package store defines durable snapshot persistence for the engine
// aggregates. Each aggregate is one whole document: callers always
// read-modify-write the full snapshot, never a partial update.
package store

import "context"

// Aggregate document names. One document per aggregate.
const (
	AggregateTrends        = "trends"
	AggregateCompetitions  = "competitions"
	AggregateAccounts      = "accounts"
	AggregateConversations = "conversations"
)

// Store provides atomic load/replace of aggregate documents.
type Store interface {
	// Load decodes the current snapshot of aggregate into v.
	// Returns ErrNotFound when the aggregate has never been saved.
	Load(ctx context.Context, aggregate string, v any) error

	// Save atomically replaces the snapshot of aggregate with v.
	// A failed save must leave the previous snapshot intact.
	Save(ctx context.Context, aggregate string, v any) error
}

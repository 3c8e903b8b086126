// Package workspace implements the per-strategy state cache and the
// orchestration that keeps it consistent: the four keyed cache buckets, the
// strategy registry, the active-strategy controller, the live paper-session
// synchronizer and the persisted favorites index.
package workspace

import (
	"github.com/moznion/go-optional"

	"github.com/quantdesk/quantdesk/internal/types"
)

// Bucket is one keyed cache mapping strategy ids to entries. Absence means
// "never populated", not "empty value". Buckets are bounded by registry
// membership, so there is no eviction policy.
type Bucket[T any] struct {
	entries map[types.StrategyID]T
}

// NewBucket creates an empty bucket.
func NewBucket[T any]() *Bucket[T] {
	return &Bucket[T]{entries: make(map[types.StrategyID]T)}
}

// Get returns the entry for id, or None if it was never populated.
func (b *Bucket[T]) Get(id types.StrategyID) optional.Option[T] {
	entry, ok := b.entries[id]
	if !ok {
		return optional.None[T]()
	}

	return optional.Some(entry)
}

// Set stores the entry for id, replacing any previous value.
func (b *Bucket[T]) Set(id types.StrategyID, entry T) {
	b.entries[id] = entry
}

// Has reports whether id has an entry.
func (b *Bucket[T]) Has(id types.StrategyID) bool {
	_, ok := b.entries[id]

	return ok
}

// Rename moves oldID's entry to newID and removes oldID.
// No-op if oldID has no entry.
func (b *Bucket[T]) Rename(oldID, newID types.StrategyID) {
	entry, ok := b.entries[oldID]
	if !ok {
		return
	}

	delete(b.entries, oldID)
	b.entries[newID] = entry
}

// Delete removes id's entry if present.
func (b *Bucket[T]) Delete(id types.StrategyID) {
	delete(b.entries, id)
}

// Prune drops every entry whose id is not in members.
func (b *Bucket[T]) Prune(members map[types.StrategyID]struct{}) {
	for id := range b.entries {
		if _, ok := members[id]; !ok {
			delete(b.entries, id)
		}
	}
}

// Len returns the number of entries.
func (b *Bucket[T]) Len() int {
	return len(b.entries)
}

// TuningEntry is the cached hyperparameter-tuning state of one strategy.
type TuningEntry struct {
	// ResultText is the human-readable summary of the last finished run.
	ResultText string

	// BestRun is the backtest replayed with the best parameter set.
	BestRun optional.Option[types.BacktestResult]

	// Err is the last failure message; empty when the last run succeeded.
	Err string

	// Ranges is the configured search range per numeric parameter. Edits made
	// while a run is in flight apply to the next run only.
	Ranges map[string]types.ParamRange

	// Trials, Seed and Objective round-trip the tuning form per strategy.
	Trials    int
	Seed      *int64
	Objective types.TuningObjective
}

// PaperEntry is the cached paper-trading state of one strategy. At most one
// session id is tracked per strategy; starting a new session overwrites it.
type PaperEntry struct {
	// SessionID identifies the tracked session; empty when none was started.
	SessionID string

	// Session is the metadata returned when the session was started.
	Session types.PaperSession

	// Err is the last refresh failure; the previous State is kept alongside
	// it so a transient failure does not wipe the chart.
	Err string

	// State is the latest successfully fetched snapshot.
	State optional.Option[types.PaperSessionState]
}

// Store is the per-strategy cache: four independent buckets sharing the
// strategy id key space. Only the workspace controller mutates it.
type Store struct {
	Code     *Bucket[string]
	Backtest *Bucket[types.BacktestResult]
	Tuning   *Bucket[TuningEntry]
	Paper    *Bucket[PaperEntry]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		Code:     NewBucket[string](),
		Backtest: NewBucket[types.BacktestResult](),
		Tuning:   NewBucket[TuningEntry](),
		Paper:    NewBucket[PaperEntry](),
	}
}

// Rename propagates a strategy rename across all four buckets.
func (s *Store) Rename(oldID, newID types.StrategyID) {
	s.Code.Rename(oldID, newID)
	s.Backtest.Rename(oldID, newID)
	s.Tuning.Rename(oldID, newID)
	s.Paper.Rename(oldID, newID)
}

// Delete removes a strategy's entries from all four buckets.
func (s *Store) Delete(id types.StrategyID) {
	s.Code.Delete(id)
	s.Backtest.Delete(id)
	s.Tuning.Delete(id)
	s.Paper.Delete(id)
}

// Reconcile intersects all four buckets with the registry's current members.
// Registry membership is the buckets' only garbage-collection signal; a
// vanished strategy's entries must not survive a reload, or a later
// re-creation under the same id would be served the dead incarnation's state.
func (s *Store) Reconcile(registryIDs []types.StrategyID) {
	members := make(map[types.StrategyID]struct{}, len(registryIDs))
	for _, id := range registryIDs {
		members[id] = struct{}{}
	}

	s.Code.Prune(members)
	s.Backtest.Prune(members)
	s.Tuning.Prune(members)
	s.Paper.Prune(members)
}

package domain

import (
	"strings"
	"time"

	"github.com/ferndale/paddock/internal/platform/errors"
)

// EntityKind identifies the kind of game object an entity represents.
type EntityKind string

const (
	EntityKindHorse EntityKind = "horse"
	EntityKindGroom EntityKind = "groom"
)

// Valid reports whether the kind is a known entity kind.
func (k EntityKind) Valid() bool {
	switch k {
	case EntityKindHorse, EntityKindGroom:
		return true
	}
	return false
}

// StabilityMetrics accumulates personality transition statistics for an
// entity. Counters only ever grow.
type StabilityMetrics struct {
	// ShiftCount is the lifetime number of personality shifts.
	ShiftCount int
	// DistinctStates is the number of distinct personality states the
	// entity has ever held, including its current one.
	DistinctStates int
	// LastShiftAt is the timestamp of the most recent shift, zero when the
	// entity has never shifted.
	LastShiftAt time.Time
}

// Entity is a horse or groom whose interaction history drives trait and
// personality evolution. Revealed traits and discovery progress are
// monotonically growing.
type Entity struct {
	ID          string
	OwnerID     string
	Kind        EntityKind
	CreatedAt   time.Time
	Personality Personality
	Stability   StabilityMetrics
	// RevealedTraits is append-only: traits are never un-revealed.
	RevealedTraits TraitSet
	// DiscoveryProgress tracks, per condition key, the highest matched
	// interaction count observed so far. Counters never decrease.
	DiscoveryProgress map[string]int
}

// Validate checks entity invariants.
func (e Entity) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New(errors.CodeEntityEmptyID, "entity id is required")
	}
	if strings.TrimSpace(e.OwnerID) == "" {
		return errors.New(errors.CodeEntityEmptyOwnerID, "entity owner id is required")
	}
	if !e.Kind.Valid() {
		return errors.WithMetadata(errors.CodeEntityInvalidKind, "invalid entity kind: "+string(e.Kind), map[string]string{"Kind": string(e.Kind)})
	}
	return nil
}

// RevealTrait adds a trait to the revealed set. It reports whether the
// trait was newly revealed; revealing an already-visible trait is a no-op.
func (e *Entity) RevealTrait(key TraitKey) bool {
	if e.RevealedTraits == nil {
		e.RevealedTraits = TraitSet{}
	}
	return e.RevealedTraits.Add(key)
}

// ShiftPersonality transitions the entity to a new personality state and
// updates its stability metrics. Shifting to the current state is a no-op.
func (e *Entity) ShiftPersonality(to Personality, visitedBefore bool, at time.Time) {
	if to == e.Personality {
		return
	}
	e.Personality = to
	e.Stability.ShiftCount++
	if !visitedBefore {
		e.Stability.DistinctStates++
	}
	e.Stability.LastShiftAt = at
}

// RecordProgress raises the stored progress counter for a condition to
// count if it exceeds the current value. Counters never decrease.
func (e *Entity) RecordProgress(conditionKey string, count int) {
	if e.DiscoveryProgress == nil {
		e.DiscoveryProgress = map[string]int{}
	}
	if count > e.DiscoveryProgress[conditionKey] {
		e.DiscoveryProgress[conditionKey] = count
	}
}

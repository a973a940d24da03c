package domain

import (
	"strings"
	"time"

	"github.com/ferndale/paddock/internal/platform/errors"
)

// OutcomeType classifies what an evolution event did to its entity.
type OutcomeType string

const (
	// OutcomeTraitReveal added a trait key to the entity's revealed set.
	OutcomeTraitReveal OutcomeType = "trait_reveal"
	// OutcomePersonalityShift transitioned the entity's personality state.
	OutcomePersonalityShift OutcomeType = "personality_shift"
	// OutcomeNoop records that a trigger fired but the rarity table
	// selected "nothing happens". No-ops still consume the cooldown.
	OutcomeNoop OutcomeType = "no_op"
)

// Valid reports whether the outcome type is known.
func (t OutcomeType) Valid() bool {
	switch t {
	case OutcomeTraitReveal, OutcomePersonalityShift, OutcomeNoop:
		return true
	}
	return false
}

// EvolutionEvent is the immutable record of one decision-engine outcome.
// Events are the audit trail and the idempotence key: at most one event
// exists per (entity, trigger) within a cooldown window, enforced by the
// CooldownBucket column in storage.
type EvolutionEvent struct {
	ID         string
	EntityID   string
	TriggerKey string
	// CatalogVersion pins the condition definition version that produced
	// this event, keeping old events interpretable after predicate changes.
	CatalogVersion int
	OutcomeType    OutcomeType
	// OutcomeValue is the revealed trait key or the new personality tag;
	// empty for no-op outcomes.
	OutcomeValue string
	// FromState is the personality before a shift; empty otherwise.
	FromState Personality
	// Seq is the per-entity sequence number assigned by the store.
	Seq uint64
	// CooldownBucket is the epoch-anchored window index used for the
	// storage uniqueness constraint.
	CooldownBucket int64
	Timestamp      time.Time
}

// Validate checks event invariants before append.
func (e EvolutionEvent) Validate() error {
	if strings.TrimSpace(e.EntityID) == "" {
		return errors.New(errors.CodeEntityEmptyID, "evolution event entity id is required")
	}
	if strings.TrimSpace(e.TriggerKey) == "" {
		return errors.New(errors.CodeEvolutionEmptyTrigger, "evolution event trigger key is required")
	}
	if !e.OutcomeType.Valid() {
		return errors.WithMetadata(errors.CodeEvolutionInvalidType, "invalid evolution outcome type: "+string(e.OutcomeType), map[string]string{"OutcomeType": string(e.OutcomeType)})
	}
	if e.OutcomeType != OutcomeNoop && strings.TrimSpace(e.OutcomeValue) == "" {
		return errors.New(errors.CodeEvolutionInvalidType, "evolution outcome value is required for non-noop outcomes")
	}
	return nil
}

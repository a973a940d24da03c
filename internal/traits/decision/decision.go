// Package decision converts satisfied conditions into evolution outcomes,
// enforcing cooldowns and idempotence.
package decision

import (
	"math/rand"
	"time"

	"github.com/ferndale/paddock/internal/traits/catalog"
	"github.com/ferndale/paddock/internal/traits/domain"
	"github.com/ferndale/paddock/internal/traits/evaluator"
)

// CooldownBucket returns the epoch-anchored window index for a timestamp
// and cooldown. Storage enforces uniqueness per (entity, trigger, bucket),
// backing the at-most-once guarantee under concurrent requests.
func CooldownBucket(at time.Time, cooldown time.Duration) int64 {
	if cooldown <= 0 {
		return 0
	}
	return at.UnixMilli() / cooldown.Milliseconds()
}

// Decide processes the evaluation results for an entity and returns the
// evolution events to append. It mutates the entity's revealed traits,
// personality state, and discovery progress; the caller owns persistence
// and locking.
//
// # Determinism
//
// Decide is deterministic with respect to seed: given the same entity
// snapshot, prior events, results, seed, and now, it always produces the
// same outcomes. Outcome selection consumes the seeded rng in result
// order.
//
// For each satisfied condition not consumed within its cooldown window,
// one event is emitted: a trait reveal (idempotent set union), a
// personality shift, or a no-op when the rarity table selects "nothing
// happens". Conditions inside their cooldown window are skipped entirely.
func Decide(entity *domain.Entity, prior []domain.EvolutionEvent, results []evaluator.Result, seed int64, now time.Time) []domain.EvolutionEvent {
	rng := rand.New(rand.NewSource(seed))
	visited := visitedStates(entity.Personality, prior)

	var events []domain.EvolutionEvent
	for _, result := range results {
		entity.RecordProgress(result.Definition.Key, result.MatchedCount)
		if !result.Satisfied {
			continue
		}
		def := result.Definition
		if withinCooldown(def, prior, events, now) {
			continue
		}

		evt := domain.EvolutionEvent{
			EntityID:       entity.ID,
			TriggerKey:     def.Key,
			CatalogVersion: def.Version,
			OutcomeType:    domain.OutcomeNoop,
			CooldownBucket: CooldownBucket(now, def.Cooldown),
			Timestamp:      now,
		}

		outcome, ok := pickOutcome(rng, def)
		if ok {
			evt.OutcomeType = outcome.Type
			evt.OutcomeValue = outcome.Value()
			switch outcome.Type {
			case domain.OutcomeTraitReveal:
				entity.RevealTrait(outcome.Trait)
			case domain.OutcomePersonalityShift:
				evt.FromState = entity.Personality
				_, seen := visited[outcome.State]
				entity.ShiftPersonality(outcome.State, seen, now)
				visited[outcome.State] = struct{}{}
			}
		}

		events = append(events, evt)
	}
	return events
}

// withinCooldown reports whether the trigger was already consumed for this
// entity inside its cooldown window, counting events emitted earlier in
// the same call.
func withinCooldown(def catalog.ConditionDefinition, prior, pending []domain.EvolutionEvent, now time.Time) bool {
	cutoff := now.Add(-def.Cooldown)
	for _, evt := range prior {
		if evt.TriggerKey == def.Key && evt.Timestamp.After(cutoff) {
			return true
		}
	}
	for _, evt := range pending {
		if evt.TriggerKey == def.Key {
			return true
		}
	}
	return false
}

// visitedStates collects every personality state the entity has held,
// reconstructed from its evolution history.
func visitedStates(current domain.Personality, prior []domain.EvolutionEvent) map[domain.Personality]struct{} {
	visited := map[domain.Personality]struct{}{current: {}}
	for _, evt := range prior {
		if evt.OutcomeType != domain.OutcomePersonalityShift {
			continue
		}
		if evt.FromState != "" {
			visited[evt.FromState] = struct{}{}
		}
		visited[domain.ParsePersonality(evt.OutcomeValue)] = struct{}{}
	}
	return visited
}

// Package effects maps revealed traits and personality state to numeric
// modifiers consumed by downstream scoring systems.
package effects

import (
	"log"

	"github.com/ferndale/paddock/internal/traits/domain"
)

// Table holds per-trait and per-state modifier contributions. It is
// configuration data the calculator consumes, not engine logic; balance
// changes never touch the calculator.
type Table struct {
	Traits        map[domain.TraitKey]map[domain.EffectDomain]domain.Modifier
	Personalities map[domain.Personality]map[domain.EffectDomain]domain.Modifier
}

// Calculator computes effect modifiers for entities.
type Calculator struct {
	Table Table
}

// ComputeEffects sums modifier contributions per effect domain from the
// entity's revealed traits and current personality state.
//
// Trait or state keys missing from the table contribute zero with a logged
// warning: configuration data may lag trait definitions during rollout and
// that must not fail the request.
func (c Calculator) ComputeEffects(entity domain.Entity) map[domain.EffectDomain]domain.Modifier {
	result := map[domain.EffectDomain]domain.Modifier{}

	for _, key := range entity.RevealedTraits.Keys() {
		contributions, ok := c.Table.Traits[key]
		if !ok {
			log.Printf("unknown trait in effect table entity_id=%s trait=%s", entity.ID, key)
			continue
		}
		for effectDomain, modifier := range contributions {
			result[effectDomain] += modifier
		}
	}

	if entity.Personality != "" {
		contributions, ok := c.Table.Personalities[entity.Personality]
		if !ok {
			log.Printf("unknown personality in effect table entity_id=%s state=%s", entity.ID, entity.Personality)
		} else {
			for effectDomain, modifier := range contributions {
				result[effectDomain] += modifier
			}
		}
	}

	return result
}

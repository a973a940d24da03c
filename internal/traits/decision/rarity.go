package decision

import (
	"math/rand"

	"github.com/ferndale/paddock/internal/traits/catalog"
	"github.com/ferndale/paddock/internal/traits/domain"
)

// rarityWeights fixes the probability mass per rarity tier. Mass strictly
// decreases from common to legendary.
var rarityWeights = map[domain.Rarity]int{
	domain.RarityCommon:    55,
	domain.RarityUncommon:  30,
	domain.RarityRare:      12,
	domain.RarityLegendary: 3,
}

// outcomeWeight returns the sampling weight for one outcome.
func outcomeWeight(outcome catalog.Outcome) int {
	return rarityWeights[outcome.Rarity]
}

// pickOutcome samples one outcome from the condition's rarity table, or
// reports ok=false when the "nothing happens" slot is drawn.
//
// Sampling walks the outcome table in declared order, so the result is
// fully determined by the rng state.
func pickOutcome(rng *rand.Rand, def catalog.ConditionDefinition) (catalog.Outcome, bool) {
	total := def.NothingWeight
	for _, outcome := range def.Outcomes {
		total += outcomeWeight(outcome)
	}
	if total <= 0 {
		return catalog.Outcome{}, false
	}

	roll := rng.Intn(total)
	for _, outcome := range def.Outcomes {
		roll -= outcomeWeight(outcome)
		if roll < 0 {
			return outcome, true
		}
	}
	return catalog.Outcome{}, false
}

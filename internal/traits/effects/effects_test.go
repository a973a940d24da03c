package effects

import (
	"testing"

	"github.com/ferndale/paddock/internal/traits/domain"
)

func TestComputeEffectsSumsContributions(t *testing.T) {
	table := Table{
		Traits: map[domain.TraitKey]map[domain.EffectDomain]domain.Modifier{
			"velvet_coat": {domain.DomainDressage: 75, domain.DomainTemperament: 50},
			"bold_heart":  {domain.DomainDressage: 25},
		},
		Personalities: map[domain.Personality]map[domain.EffectDomain]domain.Modifier{
			domain.PersonalityCalm: {domain.DomainDressage: 100, domain.DomainTemperament: -20},
		},
	}
	calc := Calculator{Table: table}

	entity := domain.Entity{
		ID:             "h-1",
		OwnerID:        "u-1",
		Kind:           domain.EntityKindHorse,
		Personality:    domain.PersonalityCalm,
		RevealedTraits: domain.NewTraitSet("velvet_coat", "bold_heart"),
	}

	result := calc.ComputeEffects(entity)
	if got := result[domain.DomainDressage]; got != 200 {
		t.Fatalf("dressage = %d, want 200", got)
	}
	if got := result[domain.DomainTemperament]; got != 30 {
		t.Fatalf("temperament = %d, want 30", got)
	}
	if got, ok := result[domain.DomainRacing]; ok {
		t.Fatalf("racing = %d, want absent", got)
	}
}

func TestComputeEffectsUnknownKeysContributeZero(t *testing.T) {
	calc := Calculator{Table: Table{
		Traits:        map[domain.TraitKey]map[domain.EffectDomain]domain.Modifier{},
		Personalities: map[domain.Personality]map[domain.EffectDomain]domain.Modifier{},
	}}

	entity := domain.Entity{
		ID:             "h-1",
		OwnerID:        "u-1",
		Kind:           domain.EntityKindHorse,
		Personality:    domain.PersonalityUnknown,
		RevealedTraits: domain.NewTraitSet("mystery_trait"),
	}

	result := calc.ComputeEffects(entity)
	for effectDomain, modifier := range result {
		if modifier != 0 {
			t.Fatalf("unexpected contribution %s=%d", effectDomain, modifier)
		}
	}
}

func TestDefaultTableCoversCatalogTraits(t *testing.T) {
	table := DefaultTable()

	for _, state := range domain.KnownPersonalities() {
		if _, ok := table.Personalities[state]; !ok {
			t.Fatalf("default table missing personality %s", state)
		}
	}
	for _, trait := range []domain.TraitKey{
		"velvet_coat", "gentle_eye", "iron_hooves", "bold_heart",
		"show_presence", "storm_chaser", "midnight_bloom", "trusting_soul",
		"unshakable", "steady_grip", "horse_whisperer", "keen_instructor",
	} {
		if _, ok := table.Traits[trait]; !ok {
			t.Fatalf("default table missing trait %s", trait)
		}
	}
}

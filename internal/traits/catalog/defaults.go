package catalog

import (
	"time"

	"github.com/ferndale/paddock/internal/traits/domain"
)

// defaultConditions is the shipped condition set. Balance values live here
// rather than in code that interprets them; deployments can construct a
// catalog from their own data instead.
var defaultConditions = []ConditionDefinition{
	{
		Key:         "consistent_grooming",
		DisplayName: "Consistent Grooming",
		Version:     2,
		AppliesTo:   domain.EntityKindHorse,
		Interaction: domain.InteractionGrooming,
		MinCount:    5,
		Window:      LookbackWindow{Kind: WindowTrailing, Duration: 30 * 24 * time.Hour},
		Cooldown:    7 * 24 * time.Hour,
		Outcomes: []Outcome{
			{Type: domain.OutcomeTraitReveal, Trait: "velvet_coat", Rarity: domain.RarityCommon},
			{Type: domain.OutcomeTraitReveal, Trait: "gentle_eye", Rarity: domain.RarityUncommon},
			{Type: domain.OutcomePersonalityShift, State: domain.PersonalityCalm, Rarity: domain.RarityRare},
		},
		NothingWeight: 10,
	},
	{
		Key:         "intense_training",
		DisplayName: "Intense Training Block",
		Version:     1,
		AppliesTo:   domain.EntityKindHorse,
		Interaction: domain.InteractionTraining,
		MinCount:    10,
		MinValue:    3,
		Window:      LookbackWindow{Kind: WindowTrailing, Duration: 14 * 24 * time.Hour},
		Cooldown:    14 * 24 * time.Hour,
		Outcomes: []Outcome{
			{Type: domain.OutcomeTraitReveal, Trait: "iron_hooves", Rarity: domain.RarityCommon},
			{Type: domain.OutcomeTraitReveal, Trait: "bold_heart", Rarity: domain.RarityRare},
			{Type: domain.OutcomePersonalityShift, State: domain.PersonalitySpirited, Rarity: domain.RarityUncommon},
			{Type: domain.OutcomePersonalityShift, State: domain.PersonalityAggressive, Rarity: domain.RarityLegendary},
		},
		NothingWeight: 20,
	},
	{
		Key:         "competition_debut",
		DisplayName: "Competition Debut",
		Version:     1,
		AppliesTo:   domain.EntityKindHorse,
		Interaction: domain.InteractionCompetition,
		MinCount:    1,
		Window:      LookbackWindow{Kind: WindowSinceCreation},
		Cooldown:    365 * 24 * time.Hour,
		Outcomes: []Outcome{
			{Type: domain.OutcomePersonalityShift, State: domain.PersonalityNervous, Rarity: domain.RarityCommon},
			{Type: domain.OutcomePersonalityShift, State: domain.PersonalitySpirited, Rarity: domain.RarityUncommon},
			{Type: domain.OutcomeTraitReveal, Trait: "show_presence", Rarity: domain.RarityRare},
		},
		NothingWeight: 15,
	},
	{
		Key:         "champion_bloodline",
		DisplayName: "Champion Bloodline",
		Version:     1,
		AppliesTo:   domain.EntityKindHorse,
		Interaction: domain.InteractionCompetition,
		MinCount:    3,
		Window:      LookbackWindow{Kind: WindowSinceCreation},
		Cooldown:    90 * 24 * time.Hour,
		// Exotic path: needs a podium finish from the evaluation context on
		// top of the interaction history.
		RequiresPlacement: true,
		MaxPlacement:      3,
		Outcomes: []Outcome{
			{Type: domain.OutcomeTraitReveal, Trait: "storm_chaser", Rarity: domain.RarityRare},
			{Type: domain.OutcomeTraitReveal, Trait: "midnight_bloom", Rarity: domain.RarityLegendary},
		},
		NothingWeight: 25,
	},
	{
		Key:         "gentle_bonding",
		DisplayName: "Gentle Bonding",
		Version:     1,
		AppliesTo:   domain.EntityKindHorse,
		Interaction: domain.InteractionBonding,
		MinCount:    8,
		Window:      LookbackWindow{Kind: WindowLastN, Count: 20},
		Cooldown:    10 * 24 * time.Hour,
		Outcomes: []Outcome{
			{Type: domain.OutcomePersonalityShift, State: domain.PersonalityPlayful, Rarity: domain.RarityCommon},
			{Type: domain.OutcomeTraitReveal, Trait: "trusting_soul", Rarity: domain.RarityUncommon},
		},
		NothingWeight: 5,
	},
	{
		Key:         "steady_routine",
		DisplayName: "Steady Routine",
		Version:     1,
		AppliesTo:   domain.EntityKindHorse,
		Interaction: domain.InteractionRest,
		MinCount:    12,
		Window:      LookbackWindow{Kind: WindowTrailing, Duration: 21 * 24 * time.Hour},
		Cooldown:    21 * 24 * time.Hour,
		Outcomes: []Outcome{
			{Type: domain.OutcomePersonalityShift, State: domain.PersonalityStoic, Rarity: domain.RarityUncommon},
			{Type: domain.OutcomeTraitReveal, Trait: "unshakable", Rarity: domain.RarityRare},
		},
		NothingWeight: 10,
	},
	{
		Key:         "patient_hands",
		DisplayName: "Patient Hands",
		Version:     1,
		AppliesTo:   domain.EntityKindGroom,
		Interaction: domain.InteractionGrooming,
		MinCount:    15,
		Window:      LookbackWindow{Kind: WindowTrailing, Duration: 30 * 24 * time.Hour},
		Cooldown:    30 * 24 * time.Hour,
		Outcomes: []Outcome{
			{Type: domain.OutcomeTraitReveal, Trait: "steady_grip", Rarity: domain.RarityCommon},
			{Type: domain.OutcomeTraitReveal, Trait: "horse_whisperer", Rarity: domain.RarityLegendary},
		},
		NothingWeight: 10,
	},
	{
		Key:         "stable_mentor",
		DisplayName: "Stable Mentor",
		Version:     1,
		AppliesTo:   domain.EntityKindGroom,
		Interaction: domain.InteractionTraining,
		MinCount:    20,
		Window:      LookbackWindow{Kind: WindowSinceCreation},
		Cooldown:    60 * 24 * time.Hour,
		Outcomes: []Outcome{
			{Type: domain.OutcomeTraitReveal, Trait: "keen_instructor", Rarity: domain.RarityUncommon},
			{Type: domain.OutcomePersonalityShift, State: domain.PersonalityStoic, Rarity: domain.RarityRare},
		},
		NothingWeight: 10,
	},
}

// Default builds the shipped condition catalog.
func Default() *Catalog {
	c, err := New(defaultConditions...)
	if err != nil {
		// The default definitions are static; a validation failure here is
		// a programming error.
		panic(err)
	}
	return c
}

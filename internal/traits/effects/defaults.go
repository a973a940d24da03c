package effects

import "github.com/ferndale/paddock/internal/traits/domain"

// DefaultTable returns the shipped effect table. Values are centipoints;
// +150 means +1.50 on the downstream scale.
func DefaultTable() Table {
	return Table{
		Traits: map[domain.TraitKey]map[domain.EffectDomain]domain.Modifier{
			"velvet_coat": {
				domain.DomainDressage:    75,
				domain.DomainTemperament: 50,
			},
			"gentle_eye": {
				domain.DomainTemperament:  125,
				domain.DomainTrainability: 75,
			},
			"iron_hooves": {
				domain.DomainCrossCountry: 150,
				domain.DomainRacing:       100,
			},
			"bold_heart": {
				domain.DomainShowJumping:  200,
				domain.DomainCrossCountry: 125,
			},
			"show_presence": {
				domain.DomainDressage:    175,
				domain.DomainShowJumping: 100,
			},
			"storm_chaser": {
				domain.DomainRacing:       300,
				domain.DomainCrossCountry: 150,
			},
			"midnight_bloom": {
				domain.DomainDressage:    250,
				domain.DomainRacing:      250,
				domain.DomainTemperament: 100,
			},
			"trusting_soul": {
				domain.DomainTemperament:  150,
				domain.DomainTrainability: 125,
			},
			"unshakable": {
				domain.DomainTemperament: 200,
				domain.DomainDressage:    100,
			},
			"steady_grip": {
				domain.DomainTrainability: 100,
			},
			"horse_whisperer": {
				domain.DomainTrainability: 350,
				domain.DomainTemperament:  200,
			},
			"keen_instructor": {
				domain.DomainTrainability: 175,
			},
		},
		Personalities: map[domain.Personality]map[domain.EffectDomain]domain.Modifier{
			domain.PersonalityCalm: {
				domain.DomainDressage:    100,
				domain.DomainTemperament: 150,
			},
			domain.PersonalitySpirited: {
				domain.DomainRacing:      150,
				domain.DomainShowJumping: 75,
				domain.DomainTemperament: -50,
			},
			domain.PersonalityNervous: {
				domain.DomainTemperament:  -125,
				domain.DomainTrainability: -75,
			},
			domain.PersonalityAggressive: {
				domain.DomainRacing:       200,
				domain.DomainTemperament:  -200,
				domain.DomainTrainability: -100,
			},
			domain.PersonalityPlayful: {
				domain.DomainTrainability: 125,
				domain.DomainShowJumping:  50,
			},
			domain.PersonalityStoic: {
				domain.DomainCrossCountry: 125,
				domain.DomainTemperament:  100,
			},
			// Legacy/unknown states carry no contributions but are present
			// so they do not log as missing configuration.
			domain.PersonalityUnknown: {},
		},
	}
}

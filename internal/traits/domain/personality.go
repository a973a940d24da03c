package domain

// Personality is a closed set of behavioral states. Unknown values from
// older records parse to PersonalityUnknown instead of failing, so legacy
// data stays loadable.
type Personality string

const (
	PersonalityCalm       Personality = "calm"
	PersonalitySpirited   Personality = "spirited"
	PersonalityNervous    Personality = "nervous"
	PersonalityAggressive Personality = "aggressive"
	PersonalityPlayful    Personality = "playful"
	PersonalityStoic      Personality = "stoic"
	// PersonalityUnknown is the explicit fallback for unrecognized or
	// legacy state tags.
	PersonalityUnknown Personality = "unknown"
)

// knownPersonalities fixes the iteration order used by prediction vectors.
var knownPersonalities = []Personality{
	PersonalityCalm,
	PersonalitySpirited,
	PersonalityNervous,
	PersonalityAggressive,
	PersonalityPlayful,
	PersonalityStoic,
}

// KnownPersonalities returns the closed state set in stable order,
// excluding the unknown fallback.
func KnownPersonalities() []Personality {
	out := make([]Personality, len(knownPersonalities))
	copy(out, knownPersonalities)
	return out
}

// Known reports whether the state is part of the closed set.
func (p Personality) Known() bool {
	for _, known := range knownPersonalities {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePersonality maps a stored state tag to a Personality, falling back
// to PersonalityUnknown for anything outside the closed set.
func ParsePersonality(value string) Personality {
	p := Personality(value)
	if p.Known() {
		return p
	}
	return PersonalityUnknown
}

// PersonalityIndex returns the position of a state in the stable order, or
// -1 for unknown states.
func PersonalityIndex(p Personality) int {
	for i, known := range knownPersonalities {
		if p == known {
			return i
		}
	}
	return -1
}

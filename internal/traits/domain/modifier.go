package domain

import (
	"fmt"
	"math"
)

// EffectDomain names a downstream scoring domain that trait and
// personality modifiers feed into.
type EffectDomain string

const (
	DomainDressage     EffectDomain = "dressage"
	DomainShowJumping  EffectDomain = "show_jumping"
	DomainCrossCountry EffectDomain = "cross_country"
	DomainRacing       EffectDomain = "racing"
	DomainTemperament  EffectDomain = "temperament"
	DomainTrainability EffectDomain = "trainability"
)

// Modifier is a fixed-precision numeric modifier expressed in centipoints
// (hundredths of a point). Integer arithmetic keeps effect sums exact
// across languages and test environments.
type Modifier int64

// ModifierFromFloat converts a float to centipoints, rounding half away
// from zero.
func ModifierFromFloat(value float64) Modifier {
	return Modifier(math.Round(value * 100))
}

// Float converts the modifier back to a floating-point value.
func (m Modifier) Float() float64 {
	return float64(m) / 100
}

// String renders the modifier with two decimal places and an explicit sign.
func (m Modifier) String() string {
	return fmt.Sprintf("%+.2f", m.Float())
}

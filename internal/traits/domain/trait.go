package domain

import "sort"

// TraitKey names a latent attribute that can be revealed on an entity.
type TraitKey string

// Rarity tiers a revealable outcome. Weighting is strictly decreasing from
// common to legendary.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Valid reports whether the rarity is a known tier.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityLegendary:
		return true
	}
	return false
}

// TraitSet is the set of revealed trait keys for an entity.
type TraitSet map[TraitKey]struct{}

// NewTraitSet builds a set from the given keys.
func NewTraitSet(keys ...TraitKey) TraitSet {
	set := make(TraitSet, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}

// Has reports whether the trait is revealed.
func (s TraitSet) Has(key TraitKey) bool {
	_, ok := s[key]
	return ok
}

// Add inserts a trait and reports whether it was newly added.
func (s TraitSet) Add(key TraitKey) bool {
	if s.Has(key) {
		return false
	}
	s[key] = struct{}{}
	return true
}

// Keys returns the revealed trait keys in sorted order.
func (s TraitSet) Keys() []TraitKey {
	keys := make([]TraitKey, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns an independent copy of the set.
func (s TraitSet) Clone() TraitSet {
	out := make(TraitSet, len(s))
	for key := range s {
		out[key] = struct{}{}
	}
	return out
}

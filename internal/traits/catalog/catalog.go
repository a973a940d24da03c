// Package catalog holds the immutable registry of condition definitions.
//
// A Catalog is constructed once at process start and injected into every
// component that needs it; there is no package-level mutable registry.
package catalog

import (
	"github.com/ferndale/paddock/internal/platform/errors"
	"github.com/ferndale/paddock/internal/traits/domain"
)

// Catalog is an immutable, ordered set of condition definitions.
type Catalog struct {
	defs  []ConditionDefinition
	index map[string]int
}

// New validates the definitions and builds a catalog. Definition order is
// preserved and determines evaluation order.
func New(defs ...ConditionDefinition) (*Catalog, error) {
	index := make(map[string]int, len(defs))
	ordered := make([]ConditionDefinition, len(defs))
	for i, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, exists := index[def.Key]; exists {
			return nil, errors.WithMetadata(errors.CodeConditionDuplicateKey, "duplicate condition key: "+def.Key, map[string]string{"ConditionKey": def.Key})
		}
		index[def.Key] = i
		ordered[i] = def
	}
	return &Catalog{defs: ordered, index: index}, nil
}

// All returns every condition definition in catalog order.
func (c *Catalog) All() []ConditionDefinition {
	out := make([]ConditionDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Get returns the definition for a key, or a CONDITION_UNKNOWN_KEY error.
func (c *Catalog) Get(key string) (ConditionDefinition, error) {
	i, ok := c.index[key]
	if !ok {
		return ConditionDefinition{}, errors.WithMetadata(errors.CodeConditionUnknownKey, "unknown condition key: "+key, map[string]string{"ConditionKey": key})
	}
	return c.defs[i], nil
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// ForKind returns the definitions applicable to an entity kind, preserving
// catalog order.
func (c *Catalog) ForKind(kind domain.EntityKind) []ConditionDefinition {
	var out []ConditionDefinition
	for _, def := range c.defs {
		if def.AppliesTo == "" || def.AppliesTo == kind {
			out = append(out, def)
		}
	}
	return out
}

package catalog

import (
	"strings"
	"time"

	"github.com/ferndale/paddock/internal/platform/errors"
	"github.com/ferndale/paddock/internal/traits/domain"
)

// WindowKind selects how a condition restricts the interaction history it
// evaluates over.
type WindowKind string

const (
	// WindowTrailing keeps interactions within a trailing duration of now.
	WindowTrailing WindowKind = "trailing"
	// WindowLastN keeps the most recent N interactions of any kind.
	WindowLastN WindowKind = "last_n"
	// WindowSinceCreation keeps the full history since the entity was created.
	WindowSinceCreation WindowKind = "since_creation"
)

// LookbackWindow parameterizes a condition's history restriction.
type LookbackWindow struct {
	Kind     WindowKind
	Duration time.Duration // trailing windows
	Count    int           // last-n windows
}

// Validate checks window invariants.
func (w LookbackWindow) Validate() error {
	switch w.Kind {
	case WindowTrailing:
		if w.Duration <= 0 {
			return errors.New(errors.CodeConditionInvalidWindow, "trailing window requires a positive duration")
		}
	case WindowLastN:
		if w.Count <= 0 {
			return errors.New(errors.CodeConditionInvalidWindow, "last-n window requires a positive count")
		}
	case WindowSinceCreation:
		// No parameters.
	default:
		return errors.New(errors.CodeConditionInvalidWindow, "unknown window kind: "+string(w.Kind))
	}
	return nil
}

// Outcome is one entry in a condition's rarity-weighted outcome table:
// either a trait reveal or a personality shift.
type Outcome struct {
	Type   domain.OutcomeType
	Trait  domain.TraitKey     // trait reveals
	State  domain.Personality  // personality shifts
	Rarity domain.Rarity
}

// Value returns the outcome's value string as recorded on evolution events.
func (o Outcome) Value() string {
	switch o.Type {
	case domain.OutcomeTraitReveal:
		return string(o.Trait)
	case domain.OutcomePersonalityShift:
		return string(o.State)
	}
	return ""
}

// Validate checks outcome invariants.
func (o Outcome) Validate() error {
	switch o.Type {
	case domain.OutcomeTraitReveal:
		if strings.TrimSpace(string(o.Trait)) == "" {
			return errors.New(errors.CodeConditionInvalidOutcome, "trait reveal outcome requires a trait key")
		}
	case domain.OutcomePersonalityShift:
		if !o.State.Known() {
			return errors.New(errors.CodeConditionInvalidOutcome, "personality shift outcome requires a known state")
		}
	default:
		return errors.New(errors.CodeConditionInvalidOutcome, "outcome type must be trait_reveal or personality_shift")
	}
	if !o.Rarity.Valid() {
		return errors.New(errors.CodeConditionInvalidOutcome, "outcome rarity is invalid")
	}
	return nil
}

// ConditionDefinition is a named, versioned predicate over an entity's
// interaction history, together with the outcomes it may unlock.
//
// The predicate counts interactions of the given kind within the lookback
// window whose value is at least MinValue, and is satisfied once MinCount
// such interactions exist. Exotic conditions additionally require a
// qualifying competition placement from the evaluation context.
type ConditionDefinition struct {
	Key         string
	DisplayName string
	// Version increments when the predicate parameters change. Recorded
	// evolution events pin the version that produced them, so predicate
	// changes never retroactively alter history.
	Version int
	// AppliesTo restricts the condition to one entity kind; empty applies
	// to all kinds.
	AppliesTo   domain.EntityKind
	Interaction domain.InteractionKind
	MinCount    int
	MinValue    int64
	Window      LookbackWindow
	Cooldown    time.Duration
	// RequiresPlacement marks exotic conditions that also need competition
	// placement context; MaxPlacement is the worst qualifying placement.
	RequiresPlacement bool
	MaxPlacement      int
	Outcomes          []Outcome
	// NothingWeight adds a "nothing happens" slot to the outcome table.
	// Zero means the condition always produces one of its outcomes.
	NothingWeight int
}

// Validate checks definition invariants.
func (d ConditionDefinition) Validate() error {
	if strings.TrimSpace(d.Key) == "" {
		return errors.New(errors.CodeConditionUnknownKey, "condition key is required")
	}
	if d.Version <= 0 {
		return errors.New(errors.CodeConditionInvalidWindow, "condition version must be positive")
	}
	if d.AppliesTo != "" && !d.AppliesTo.Valid() {
		return errors.New(errors.CodeEntityInvalidKind, "condition applies-to kind is invalid")
	}
	if !d.Interaction.Valid() {
		return errors.New(errors.CodeInteractionInvalid, "condition interaction kind is invalid")
	}
	if d.MinCount <= 0 {
		return errors.New(errors.CodeConditionInvalidWindow, "condition min count must be positive")
	}
	if err := d.Window.Validate(); err != nil {
		return err
	}
	if d.Cooldown <= 0 {
		return errors.New(errors.CodeConditionInvalidWindow, "condition cooldown must be positive")
	}
	if d.RequiresPlacement && d.MaxPlacement <= 0 {
		return errors.New(errors.CodeConditionInvalidWindow, "placement-gated condition requires a positive max placement")
	}
	if len(d.Outcomes) == 0 {
		return errors.New(errors.CodeConditionInvalidOutcome, "condition requires at least one outcome")
	}
	for _, outcome := range d.Outcomes {
		if err := outcome.Validate(); err != nil {
			return err
		}
	}
	if d.NothingWeight < 0 {
		return errors.New(errors.CodeConditionInvalidOutcome, "nothing weight cannot be negative")
	}
	return nil
}

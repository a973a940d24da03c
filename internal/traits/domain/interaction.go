package domain

import (
	"strings"
	"time"

	"github.com/ferndale/paddock/internal/platform/errors"
)

// InteractionKind classifies a logged interaction with an entity.
type InteractionKind string

const (
	InteractionGrooming    InteractionKind = "grooming"
	InteractionTraining    InteractionKind = "training"
	InteractionFeeding     InteractionKind = "feeding"
	InteractionCompetition InteractionKind = "competition"
	InteractionRest        InteractionKind = "rest"
	InteractionBonding     InteractionKind = "bonding"
	InteractionVeterinary  InteractionKind = "veterinary"
)

// Valid reports whether the kind is a known interaction kind.
func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionGrooming, InteractionTraining, InteractionFeeding,
		InteractionCompetition, InteractionRest, InteractionBonding,
		InteractionVeterinary:
		return true
	}
	return false
}

// InteractionEvent is one entry in an entity's append-only interaction
// history. Value carries the interaction's numeric payload (intensity,
// quality score, or competition points depending on the kind).
type InteractionEvent struct {
	EntityID  string
	Kind      InteractionKind
	Value     int64
	Timestamp time.Time
}

// Validate checks interaction invariants.
func (e InteractionEvent) Validate() error {
	if strings.TrimSpace(e.EntityID) == "" {
		return errors.New(errors.CodeEntityEmptyID, "interaction entity id is required")
	}
	if !e.Kind.Valid() {
		return errors.WithMetadata(errors.CodeInteractionInvalid, "invalid interaction kind: "+string(e.Kind), map[string]string{"Kind": string(e.Kind)})
	}
	if e.Timestamp.IsZero() {
		return errors.New(errors.CodeInteractionTimestamp, "interaction timestamp is required")
	}
	return nil
}

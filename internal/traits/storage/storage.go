// Package storage defines the persistence interfaces for the trait engine.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ferndale/paddock/internal/traits/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrEvolutionConflict indicates another request already recorded an
// evolution event for the same (entity, trigger, cooldown window). The
// stored event is returned alongside it; callers treat the conflict as a
// designed no-op, not a failure.
var ErrEvolutionConflict = errors.New("evolution event already recorded for cooldown window")

// EntityStore persists entity records.
type EntityStore interface {
	GetEntity(ctx context.Context, id string) (domain.Entity, error)
	PutEntity(ctx context.Context, entity domain.Entity) error
}

// InteractionStore reads and appends the interaction history log.
type InteractionStore interface {
	ListInteractions(ctx context.Context, entityID string) ([]domain.InteractionEvent, error)
	AppendInteraction(ctx context.Context, evt domain.InteractionEvent) error
}

// EvolutionStore reads and appends evolution events. AppendEvolutionEvent
// assigns the per-entity sequence number; when the cooldown-bucket
// uniqueness constraint trips it returns the previously stored event with
// ErrEvolutionConflict.
type EvolutionStore interface {
	ListEvolutionEvents(ctx context.Context, entityID string) ([]domain.EvolutionEvent, error)
	AppendEvolutionEvent(ctx context.Context, evt domain.EvolutionEvent) (domain.EvolutionEvent, error)
}

// OwnerReader resolves entity ownership. GetOwners reads every id in a
// single pass so batch validation has no check/use gap.
type OwnerReader interface {
	GetOwner(ctx context.Context, entityID string) (string, error)
	GetOwners(ctx context.Context, entityIDs []string) (map[string]string, error)
}

// AuditEvent records a security-relevant engine decision.
type AuditEvent struct {
	EventName   string
	Severity    string
	EntityID    string
	OwnerID     string
	RequesterID string
	Reason      string
	Timestamp   time.Time
}

// AuditEventStore persists audit events.
type AuditEventStore interface {
	AppendAuditEvent(ctx context.Context, evt AuditEvent) error
}

// HistoryStore is the full persistence surface consumed by the engine.
type HistoryStore interface {
	EntityStore
	InteractionStore
	EvolutionStore
	OwnerReader
	AuditEventStore
}

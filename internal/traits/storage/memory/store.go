// Package memory provides an in-memory history store for tests and local
// runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ferndale/paddock/internal/traits/domain"
	"github.com/ferndale/paddock/internal/traits/storage"
)

// Store is an in-memory implementation of storage.HistoryStore. It is safe
// for concurrent use.
type Store struct {
	mu            sync.RWMutex
	entities      map[string]domain.Entity
	interactions  map[string][]domain.InteractionEvent
	evolutions    map[string][]domain.EvolutionEvent
	evolutionKeys map[string]struct{}
	audits        []storage.AuditEvent
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		entities:      map[string]domain.Entity{},
		interactions:  map[string][]domain.InteractionEvent{},
		evolutions:    map[string][]domain.EvolutionEvent{},
		evolutionKeys: map[string]struct{}{},
	}
}

// GetEntity returns a copy of the stored entity.
func (s *Store) GetEntity(ctx context.Context, id string) (domain.Entity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Entity{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[id]
	if !ok {
		return domain.Entity{}, storage.ErrNotFound
	}
	return cloneEntity(entity), nil
}

// PutEntity stores a copy of the entity.
func (s *Store) PutEntity(ctx context.Context, entity domain.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := entity.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities[entity.ID] = cloneEntity(entity)
	return nil
}

// ListInteractions returns the interaction history in append order.
func (s *Store) ListInteractions(ctx context.Context, entityID string) ([]domain.InteractionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.interactions[entityID]
	out := make([]domain.InteractionEvent, len(history))
	copy(out, history)
	return out, nil
}

// AppendInteraction appends one interaction to the history log.
func (s *Store) AppendInteraction(ctx context.Context, evt domain.InteractionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := evt.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interactions[evt.EntityID] = append(s.interactions[evt.EntityID], evt)
	return nil
}

// ListEvolutionEvents returns evolution events ordered by sequence.
func (s *Store) ListEvolutionEvents(ctx context.Context, entityID string) ([]domain.EvolutionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.evolutions[entityID]
	out := make([]domain.EvolutionEvent, len(events))
	copy(out, events)
	return out, nil
}

// AppendEvolutionEvent appends an event, assigning its sequence number.
// A second append for the same (entity, trigger, cooldown bucket) returns
// the stored event with storage.ErrEvolutionConflict.
func (s *Store) AppendEvolutionEvent(ctx context.Context, evt domain.EvolutionEvent) (domain.EvolutionEvent, error) {
	if err := ctx.Err(); err != nil {
		return domain.EvolutionEvent{}, err
	}
	if err := evt.Validate(); err != nil {
		return domain.EvolutionEvent{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := evolutionKey(evt.EntityID, evt.TriggerKey, evt.CooldownBucket)
	if _, exists := s.evolutionKeys[key]; exists {
		for _, stored := range s.evolutions[evt.EntityID] {
			if stored.TriggerKey == evt.TriggerKey && stored.CooldownBucket == evt.CooldownBucket {
				return stored, storage.ErrEvolutionConflict
			}
		}
		return domain.EvolutionEvent{}, storage.ErrEvolutionConflict
	}

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Seq = uint64(len(s.evolutions[evt.EntityID])) + 1
	s.evolutions[evt.EntityID] = append(s.evolutions[evt.EntityID], evt)
	s.evolutionKeys[key] = struct{}{}
	return evt, nil
}

// GetOwner returns the owner of one entity.
func (s *Store) GetOwner(ctx context.Context, entityID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[entityID]
	if !ok {
		return "", storage.ErrNotFound
	}
	return entity.OwnerID, nil
}

// GetOwners resolves ownership for all ids in one pass. Missing ids are
// absent from the result rather than an error.
func (s *Store) GetOwners(ctx context.Context, entityIDs []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make(map[string]string, len(entityIDs))
	for _, id := range entityIDs {
		if entity, ok := s.entities[id]; ok {
			owners[id] = entity.OwnerID
		}
	}
	return owners, nil
}

// AppendAuditEvent records an audit event.
func (s *Store) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audits = append(s.audits, evt)
	return nil
}

// AuditEvents returns a copy of the recorded audit events.
func (s *Store) AuditEvents() []storage.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storage.AuditEvent, len(s.audits))
	copy(out, s.audits)
	return out
}

func evolutionKey(entityID, triggerKey string, bucket int64) string {
	return fmt.Sprintf("%s|%s|%d", entityID, triggerKey, bucket)
}

func cloneEntity(entity domain.Entity) domain.Entity {
	out := entity
	out.RevealedTraits = entity.RevealedTraits.Clone()
	if entity.DiscoveryProgress != nil {
		out.DiscoveryProgress = make(map[string]int, len(entity.DiscoveryProgress))
		for key, count := range entity.DiscoveryProgress {
			out.DiscoveryProgress[key] = count
		}
	}
	return out
}

var _ storage.HistoryStore = (*Store)(nil)

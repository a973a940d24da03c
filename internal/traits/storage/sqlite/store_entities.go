package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ferndale/paddock/internal/traits/domain"
	"github.com/ferndale/paddock/internal/traits/storage"
)

// GetEntity returns one entity with its revealed traits and discovery
// progress loaded.
func (s *Store) GetEntity(ctx context.Context, id string) (domain.Entity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Entity{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Entity{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Entity{}, fmt.Errorf("entity id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, owner_id, kind, personality,
		        shift_count, distinct_states, last_shift_at, created_at
		   FROM entities
		  WHERE id = ?`,
		id,
	)

	var entity domain.Entity
	var kind, personality string
	var lastShiftAt sql.NullInt64
	var createdAt int64
	err := row.Scan(
		&entity.ID,
		&entity.OwnerID,
		&kind,
		&personality,
		&entity.Stability.ShiftCount,
		&entity.Stability.DistinctStates,
		&lastShiftAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entity{}, storage.ErrNotFound
		}
		return domain.Entity{}, fmt.Errorf("get entity: %w", err)
	}
	entity.Kind = domain.EntityKind(kind)
	entity.Personality = domain.ParsePersonality(personality)
	entity.Stability.LastShiftAt = fromNullMillis(lastShiftAt)
	entity.CreatedAt = fromMillis(createdAt)

	if err := s.loadTraits(ctx, &entity); err != nil {
		return domain.Entity{}, err
	}
	if err := s.loadProgress(ctx, &entity); err != nil {
		return domain.Entity{}, err
	}
	return entity, nil
}

// PutEntity upserts an entity record and reconciles its revealed traits and
// discovery progress rows. Traits and progress counters only ever grow, so
// reconciliation is insert-only.
func (s *Store) PutEntity(ctx context.Context, entity domain.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := entity.Validate(); err != nil {
		return err
	}
	createdAt := entity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put entity: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO entities (
		   id, owner_id, kind, personality,
		   shift_count, distinct_states, last_shift_at, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   owner_id = excluded.owner_id,
		   kind = excluded.kind,
		   personality = excluded.personality,
		   shift_count = excluded.shift_count,
		   distinct_states = excluded.distinct_states,
		   last_shift_at = excluded.last_shift_at`,
		entity.ID,
		entity.OwnerID,
		string(entity.Kind),
		string(entity.Personality),
		entity.Stability.ShiftCount,
		entity.Stability.DistinctStates,
		toNullMillis(entity.Stability.LastShiftAt),
		toMillis(createdAt),
	)
	if err != nil {
		return fmt.Errorf("put entity: %w", err)
	}

	now := toMillis(time.Now())
	for _, key := range entity.RevealedTraits.Keys() {
		_, err = tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO entity_traits (entity_id, trait_key, revealed_at)
			 VALUES (?, ?, ?)`,
			entity.ID, string(key), now,
		)
		if err != nil {
			return fmt.Errorf("put entity trait: %w", err)
		}
	}

	for conditionKey, count := range entity.DiscoveryProgress {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO discovery_progress (entity_id, condition_key, matched_count)
			 VALUES (?, ?, ?)
			 ON CONFLICT(entity_id, condition_key) DO UPDATE SET
			   matched_count = MAX(matched_count, excluded.matched_count)`,
			entity.ID, conditionKey, count,
		)
		if err != nil {
			return fmt.Errorf("put discovery progress: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put entity: %w", err)
	}
	return nil
}

func (s *Store) loadTraits(ctx context.Context, entity *domain.Entity) error {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT trait_key FROM entity_traits WHERE entity_id = ?`,
		entity.ID,
	)
	if err != nil {
		return fmt.Errorf("list entity traits: %w", err)
	}
	defer rows.Close()

	entity.RevealedTraits = domain.TraitSet{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return fmt.Errorf("scan entity trait: %w", err)
		}
		entity.RevealedTraits.Add(domain.TraitKey(key))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read entity traits: %w", err)
	}
	return nil
}

func (s *Store) loadProgress(ctx context.Context, entity *domain.Entity) error {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT condition_key, matched_count FROM discovery_progress WHERE entity_id = ?`,
		entity.ID,
	)
	if err != nil {
		return fmt.Errorf("list discovery progress: %w", err)
	}
	defer rows.Close()

	entity.DiscoveryProgress = map[string]int{}
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan discovery progress: %w", err)
		}
		entity.DiscoveryProgress[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read discovery progress: %w", err)
	}
	return nil
}

// GetOwner returns the owner of one entity.
func (s *Store) GetOwner(ctx context.Context, entityID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT owner_id FROM entities WHERE id = ?`, entityID)
	var owner string
	if err := row.Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get owner: %w", err)
	}
	return owner, nil
}

// GetOwners resolves ownership for all ids in a single query. Missing ids
// are absent from the result rather than an error, so batch validation can
// report them individually.
func (s *Store) GetOwners(ctx context.Context, entityIDs []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if len(entityIDs) == 0 {
		return map[string]string{}, nil
	}

	placeholders := strings.Repeat("?,", len(entityIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(entityIDs))
	for i, id := range entityIDs {
		args[i] = id
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, owner_id FROM entities WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("get owners: %w", err)
	}
	defer rows.Close()

	owners := make(map[string]string, len(entityIDs))
	for rows.Next() {
		var id, owner string
		if err := rows.Scan(&id, &owner); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners[id] = owner
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read owners: %w", err)
	}
	return owners, nil
}

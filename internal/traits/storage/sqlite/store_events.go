package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ferndale/paddock/internal/traits/domain"
	"github.com/ferndale/paddock/internal/traits/storage"
)

// ListInteractions returns the interaction history for an entity in
// timestamp order.
func (s *Store) ListInteractions(ctx context.Context, entityID string) ([]domain.InteractionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT entity_id, kind, value, timestamp
		   FROM interactions
		  WHERE entity_id = ?
		  ORDER BY timestamp ASC, id ASC`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var history []domain.InteractionEvent
	for rows.Next() {
		var evt domain.InteractionEvent
		var kind string
		var timestamp int64
		if err := rows.Scan(&evt.EntityID, &kind, &evt.Value, &timestamp); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		evt.Kind = domain.InteractionKind(kind)
		evt.Timestamp = fromMillis(timestamp)
		history = append(history, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read interactions: %w", err)
	}
	return history, nil
}

// AppendInteraction appends one interaction to the history log.
func (s *Store) AppendInteraction(ctx context.Context, evt domain.InteractionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := evt.Validate(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO interactions (entity_id, kind, value, timestamp)
		 VALUES (?, ?, ?, ?)`,
		evt.EntityID, string(evt.Kind), evt.Value, toMillis(evt.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

// ListEvolutionEvents returns the evolution audit trail for an entity in
// sequence order.
func (s *Store) ListEvolutionEvents(ctx context.Context, entityID string) ([]domain.EvolutionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, entity_id, trigger_key, catalog_version,
		        outcome_type, outcome_value, from_state,
		        seq, cooldown_bucket, timestamp
		   FROM evolution_events
		  WHERE entity_id = ?
		  ORDER BY seq ASC`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list evolution events: %w", err)
	}
	defer rows.Close()

	var events []domain.EvolutionEvent
	for rows.Next() {
		evt, err := scanEvolutionEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read evolution events: %w", err)
	}
	return events, nil
}

// AppendEvolutionEvent appends one evolution event, allocating its
// per-entity sequence number in the same transaction.
//
// When the (entity, trigger, cooldown bucket) uniqueness index trips, the
// previously stored event is returned with storage.ErrEvolutionConflict so
// concurrent duplicate triggers converge on the first writer's outcome.
func (s *Store) AppendEvolutionEvent(ctx context.Context, evt domain.EvolutionEvent) (domain.EvolutionEvent, error) {
	if err := ctx.Err(); err != nil {
		return domain.EvolutionEvent{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.EvolutionEvent{}, fmt.Errorf("storage is not configured")
	}
	if err := evt.Validate(); err != nil {
		return domain.EvolutionEvent{}, err
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.EvolutionEvent{}, fmt.Errorf("begin append evolution event: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO evolution_seq (entity_id, next_seq) VALUES (?, 1)`,
		evt.EntityID,
	); err != nil {
		return domain.EvolutionEvent{}, fmt.Errorf("init evolution seq: %w", err)
	}

	var seq int64
	row := tx.QueryRowContext(ctx, `SELECT next_seq FROM evolution_seq WHERE entity_id = ?`, evt.EntityID)
	if err := row.Scan(&seq); err != nil {
		return domain.EvolutionEvent{}, fmt.Errorf("get evolution seq: %w", err)
	}
	if seq <= 0 {
		return domain.EvolutionEvent{}, fmt.Errorf("evolution seq is required")
	}
	evt.Seq = uint64(seq)

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO evolution_events (
		   id, entity_id, trigger_key, catalog_version,
		   outcome_type, outcome_value, from_state,
		   seq, cooldown_bucket, timestamp
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.ID,
		evt.EntityID,
		evt.TriggerKey,
		evt.CatalogVersion,
		string(evt.OutcomeType),
		evt.OutcomeValue,
		string(evt.FromState),
		seq,
		evt.CooldownBucket,
		toMillis(evt.Timestamp),
	); err != nil {
		if isConstraintError(err) {
			_ = tx.Rollback()
			stored, lookupErr := s.getEventByCooldown(ctx, evt.EntityID, evt.TriggerKey, evt.CooldownBucket)
			if lookupErr != nil {
				return domain.EvolutionEvent{}, fmt.Errorf("load conflicting evolution event: %w", lookupErr)
			}
			return stored, storage.ErrEvolutionConflict
		}
		return domain.EvolutionEvent{}, fmt.Errorf("append evolution event: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE evolution_seq SET next_seq = next_seq + 1 WHERE entity_id = ?`,
		evt.EntityID,
	); err != nil {
		return domain.EvolutionEvent{}, fmt.Errorf("increment evolution seq: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.EvolutionEvent{}, fmt.Errorf("commit append evolution event: %w", err)
	}
	return evt, nil
}

func (s *Store) getEventByCooldown(ctx context.Context, entityID, triggerKey string, bucket int64) (domain.EvolutionEvent, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, entity_id, trigger_key, catalog_version,
		        outcome_type, outcome_value, from_state,
		        seq, cooldown_bucket, timestamp
		   FROM evolution_events
		  WHERE entity_id = ? AND trigger_key = ? AND cooldown_bucket = ?`,
		entityID, triggerKey, bucket,
	)
	return scanEvolutionEvent(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvolutionEvent(row rowScanner) (domain.EvolutionEvent, error) {
	var evt domain.EvolutionEvent
	var outcomeType, fromState string
	var seq, timestamp int64
	err := row.Scan(
		&evt.ID,
		&evt.EntityID,
		&evt.TriggerKey,
		&evt.CatalogVersion,
		&outcomeType,
		&evt.OutcomeValue,
		&fromState,
		&seq,
		&evt.CooldownBucket,
		&timestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.EvolutionEvent{}, storage.ErrNotFound
		}
		return domain.EvolutionEvent{}, fmt.Errorf("scan evolution event: %w", err)
	}
	evt.OutcomeType = domain.OutcomeType(outcomeType)
	evt.FromState = domain.Personality(fromState)
	evt.Seq = uint64(seq)
	evt.Timestamp = fromMillis(timestamp)
	return evt, nil
}

// AppendAuditEvent records one audit event.
func (s *Store) AppendAuditEvent(ctx context.Context, evt storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	timestamp := evt.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO audit_events (
		   event_name, severity, entity_id, owner_id, requester_id, reason, timestamp
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		evt.EventName,
		evt.Severity,
		evt.EntityID,
		evt.OwnerID,
		evt.RequesterID,
		evt.Reason,
		toMillis(timestamp),
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

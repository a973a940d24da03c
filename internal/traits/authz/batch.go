// Package authz validates resource ownership for batch operations.
//
// Ownership for every entity in a batch is read in a single pass before
// any entity is mutated, closing the time-of-check/time-of-use gap and the
// authorization-bypass pattern where one unauthorized id is smuggled into
// an otherwise-authorized batch (CWE-639).
package authz

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ferndale/paddock/internal/platform/errors"
	"github.com/ferndale/paddock/internal/traits/observability/audit"
	"github.com/ferndale/paddock/internal/traits/storage"
)

// Mode selects how a batch with violations is handled.
type Mode string

const (
	// ModeAllOrNothing rejects the entire batch when any entity fails
	// validation. This is the default and the fail-closed choice.
	ModeAllOrNothing Mode = "all_or_nothing"
	// ModeIsolate processes the valid subset and reports violations for
	// the rest.
	ModeIsolate Mode = "isolate"
)

// Violation describes why one entity failed batch validation.
type Violation struct {
	EntityID string
	Code     errors.Code
	Reason   string
}

// Result is the outcome of validating a batch.
type Result struct {
	// ValidIDs are the entities cleared for processing, in request order.
	// Empty in all-or-nothing mode when any violation exists.
	ValidIDs   []string
	Violations []Violation
}

// Rejected reports whether the batch as a whole was refused.
func (r Result) Rejected() bool {
	return len(r.Violations) > 0 && len(r.ValidIDs) == 0
}

// Validator checks that a single requesting owner controls every entity in
// a batch.
type Validator struct {
	Owners storage.OwnerReader
	Audit  *audit.Emitter
	Mode   Mode
}

// ValidateBatch verifies ownership of all entities in one pass.
//
// Every violation is audited and logged; in all-or-nothing mode a single
// violation empties the valid set so no entity is mutated.
func (v Validator) ValidateBatch(ctx context.Context, entityIDs []string, requesterOwnerID string) (Result, error) {
	if len(entityIDs) == 0 {
		return Result{}, errors.New(errors.CodeBatchEmpty, "at least one entity id is required")
	}
	if strings.TrimSpace(requesterOwnerID) == "" {
		return Result{}, errors.New(errors.CodeEntityEmptyOwnerID, "requester owner id is required")
	}
	if v.Owners == nil {
		return Result{}, fmt.Errorf("owner reader is not configured")
	}

	// Deduplicate while preserving request order.
	seen := make(map[string]struct{}, len(entityIDs))
	ids := make([]string, 0, len(entityIDs))
	for _, id := range entityIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	owners, err := v.Owners.GetOwners(ctx, ids)
	if err != nil {
		return Result{}, fmt.Errorf("read batch owners: %w", err)
	}

	var result Result
	for _, id := range ids {
		owner, ok := owners[id]
		if !ok {
			result.Violations = append(result.Violations, Violation{
				EntityID: id,
				Code:     errors.CodeEntityNotFound,
				Reason:   "entity does not exist",
			})
			continue
		}
		if owner != requesterOwnerID {
			result.Violations = append(result.Violations, Violation{
				EntityID: id,
				Code:     errors.CodeOwnershipViolation,
				Reason:   "entity is owned by another user",
			})
			v.auditViolation(ctx, id, owner, requesterOwnerID)
			continue
		}
		result.ValidIDs = append(result.ValidIDs, id)
	}

	mode := v.Mode
	if mode == "" {
		mode = ModeAllOrNothing
	}
	if mode == ModeAllOrNothing && len(result.Violations) > 0 {
		log.Printf(
			"batch rejected requester_id=%s batch_size=%d violations=%d",
			requesterOwnerID, len(ids), len(result.Violations),
		)
		result.ValidIDs = nil
	}

	return result, nil
}

// auditViolation records an ownership violation. Audit failures are logged
// and never fail the request.
func (v Validator) auditViolation(ctx context.Context, entityID, ownerID, requesterID string) {
	log.Printf(
		"ownership violation entity_id=%s owner_id=%s requester_id=%s",
		entityID, ownerID, requesterID,
	)
	err := v.Audit.Emit(ctx, storage.AuditEvent{
		EventName:   audit.EventOwnershipViolation,
		Severity:    string(audit.SeverityWarn),
		EntityID:    entityID,
		OwnerID:     ownerID,
		RequesterID: requesterID,
		Reason:      "requester does not own entity",
	})
	if err != nil {
		log.Printf("audit emit entity_id=%s: %v", entityID, err)
	}
}

// Package service orchestrates trait evaluation, evolution decisions, and
// persistence for the trait engine.
package service

import (
	"context"
	stderrors "errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/ferndale/paddock/internal/platform/errors"
	"github.com/ferndale/paddock/internal/platform/id"
	"github.com/ferndale/paddock/internal/platform/random"
	"github.com/ferndale/paddock/internal/platform/timeouts"
	"github.com/ferndale/paddock/internal/traits/authz"
	"github.com/ferndale/paddock/internal/traits/catalog"
	"github.com/ferndale/paddock/internal/traits/decision"
	"github.com/ferndale/paddock/internal/traits/domain"
	"github.com/ferndale/paddock/internal/traits/effects"
	"github.com/ferndale/paddock/internal/traits/evaluator"
	"github.com/ferndale/paddock/internal/traits/observability/audit"
	"github.com/ferndale/paddock/internal/traits/stability"
	"github.com/ferndale/paddock/internal/traits/storage"
)

// Config parameterizes service behavior.
type Config struct {
	// BatchMode selects how batches with ownership violations are handled.
	BatchMode authz.Mode
	// Stability parameterizes scoring and prediction.
	Stability stability.Config
	// StoreTimeout caps a single history store call.
	StoreTimeout time.Duration
}

// DefaultConfig returns the shipped service parameters.
func DefaultConfig() Config {
	return Config{
		BatchMode:    authz.ModeAllOrNothing,
		Stability:    stability.DefaultConfig(),
		StoreTimeout: timeouts.StoreIO,
	}
}

// Service is the trait engine application service. All mutations go through
// it so per-entity locking and the evolution audit trail stay consistent.
type Service struct {
	store   storage.HistoryStore
	catalog *catalog.Catalog
	effects effects.Calculator
	batch   authz.Validator
	audit   *audit.Emitter
	locks   *entityLocks
	clock   func() time.Time
	newID   func() (string, error)
	newSeed func() (int64, error)
	cfg     Config
}

// Option configures a Service.
type Option func(*Service)

// WithConfig overrides the default service configuration.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithSeedSource overrides the evolution seed source. Production uses
// crypto/rand; deterministic replay and tests inject fixed seeds.
func WithSeedSource(newSeed func() (int64, error)) Option {
	return func(s *Service) { s.newSeed = newSeed }
}

// New creates a trait engine service over a history store and an immutable
// condition catalog.
func New(store storage.HistoryStore, cat *catalog.Catalog, table effects.Table, opts ...Option) *Service {
	emitter := audit.NewEmitter(store)
	s := &Service{
		store:   store,
		catalog: cat,
		effects: effects.Calculator{Table: table},
		audit:   emitter,
		locks:   newEntityLocks(),
		clock:   func() time.Time { return time.Now().UTC() },
		newID:   id.New,
		newSeed: random.NewSeed,
		cfg:     DefaultConfig(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.batch = authz.Validator{Owners: store, Audit: emitter, Mode: s.cfg.BatchMode}
	return s
}

// EvaluationOutcome is the result of processing one entity's evolution.
type EvaluationOutcome struct {
	EntityID string
	// NewTraits are the trait keys revealed by this evaluation, in catalog
	// trigger order.
	NewTraits []domain.TraitKey
	// PersonalityState is the entity's state after processing.
	PersonalityState domain.Personality
	// PersonalityShifted reports whether this evaluation changed the state.
	PersonalityShifted bool
	// StabilityScore is the post-evaluation stability score in [0,1].
	StabilityScore float64
	// Events are the evolution events recorded by this evaluation.
	Events []domain.EvolutionEvent
}

// EvaluateEntity evaluates all applicable conditions for one entity and
// applies the resulting evolution outcomes.
//
// conditionKeys optionally restricts evaluation to a subset of catalog
// conditions; an unknown key fails the request before any state is read.
// The requester must own the entity.
func (s *Service) EvaluateEntity(ctx context.Context, entityID, requesterOwnerID string, evalCtx evaluator.Context, conditionKeys []string) (EvaluationOutcome, error) {
	if strings.TrimSpace(entityID) == "" {
		return EvaluationOutcome{}, errors.New(errors.CodeEntityEmptyID, "entity id is required")
	}
	filter, err := s.conditionFilter(conditionKeys)
	if err != nil {
		return EvaluationOutcome{}, err
	}

	unlock := s.locks.acquire(entityID)
	defer unlock()

	entity, err := s.loadOwnedEntity(ctx, entityID, requesterOwnerID)
	if err != nil {
		return EvaluationOutcome{}, err
	}
	return s.evolveLocked(ctx, entity, evalCtx, filter)
}

// BatchResult is the outcome of a batch evolution request.
type BatchResult struct {
	// Results holds per-entity outcomes for processed entities, keyed by
	// entity id. Empty when the batch was rejected.
	Results map[string]EvaluationOutcome
	// Violations lists entities that failed ownership validation.
	Violations []authz.Violation
}

// ProcessBatch validates ownership of every entity in one pass and then
// evolves the cleared entities sequentially.
//
// In all-or-nothing mode a single violation rejects the whole batch before
// any entity is touched. Validation errors for individual entities never
// abort the rest of the batch once processing has started.
func (s *Service) ProcessBatch(ctx context.Context, entityIDs []string, requesterOwnerID string, evalCtx evaluator.Context) (BatchResult, error) {
	validated, err := s.batch.ValidateBatch(ctx, entityIDs, requesterOwnerID)
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{Violations: validated.Violations}
	if validated.Rejected() {
		if err := s.audit.Emit(ctx, storage.AuditEvent{
			EventName:   audit.EventBatchRejected,
			Severity:    string(audit.SeverityWarn),
			RequesterID: requesterOwnerID,
			Reason:      "batch contains ownership violations",
		}); err != nil {
			log.Printf("audit emit requester_id=%s: %v", requesterOwnerID, err)
		}
		return result, nil
	}

	result.Results = make(map[string]EvaluationOutcome, len(validated.ValidIDs))
	for _, entityID := range validated.ValidIDs {
		outcome, err := s.evolveValidated(ctx, entityID, evalCtx)
		if err != nil {
			log.Printf("batch entity failed entity_id=%s requester_id=%s: %v", entityID, requesterOwnerID, err)
			result.Violations = append(result.Violations, authz.Violation{
				EntityID: entityID,
				Code:     errors.GetCode(err),
				Reason:   err.Error(),
			})
			continue
		}
		result.Results[entityID] = outcome
	}
	return result, nil
}

// evolveValidated runs evolution for an entity whose ownership was already
// validated as part of a batch.
func (s *Service) evolveValidated(ctx context.Context, entityID string, evalCtx evaluator.Context) (EvaluationOutcome, error) {
	unlock := s.locks.acquire(entityID)
	defer unlock()

	entity, err := s.loadEntity(ctx, entityID)
	if err != nil {
		return EvaluationOutcome{}, err
	}
	return s.evolveLocked(ctx, entity, evalCtx, nil)
}

// evolveLocked runs the evaluate/decide/persist cycle. The caller must hold
// the entity lock.
func (s *Service) evolveLocked(ctx context.Context, entity domain.Entity, evalCtx evaluator.Context, filter map[string]struct{}) (EvaluationOutcome, error) {
	now := s.clock()

	history, err := s.listInteractions(ctx, entity.ID)
	if err != nil {
		return EvaluationOutcome{}, err
	}
	prior, err := s.listEvolutionEvents(ctx, entity.ID)
	if err != nil {
		return EvaluationOutcome{}, err
	}
	reconcileHistory(&entity, prior)

	results := evaluator.Evaluate(entity, history, evalCtx, s.catalog, now)
	if filter != nil {
		filtered := results[:0]
		for _, result := range results {
			if _, ok := filter[result.Definition.Key]; ok {
				filtered = append(filtered, result)
			}
		}
		results = filtered
	}

	seed, err := s.newSeed()
	if err != nil {
		return EvaluationOutcome{}, errors.Wrap(errors.CodeUnknown, "generate evolution seed", err)
	}

	before := entity.Personality
	pending := decision.Decide(&entity, prior, results, seed, now)

	outcome := EvaluationOutcome{EntityID: entity.ID}
	for _, evt := range pending {
		eventID, err := s.newID()
		if err != nil {
			return EvaluationOutcome{}, errors.Wrap(errors.CodeUnknown, "generate event id", err)
		}
		evt.ID = eventID
		stored, err := s.appendEvolutionEvent(ctx, evt)
		if err != nil {
			if stderrors.Is(err, storage.ErrEvolutionConflict) {
				// Another request consumed this cooldown window first; its
				// stored outcome wins and this side applies it too.
				s.reconcileConflict(ctx, &entity, stored, prior, now)
				continue
			}
			return EvaluationOutcome{}, err
		}
		if stored.OutcomeType == domain.OutcomeTraitReveal {
			outcome.NewTraits = append(outcome.NewTraits, domain.TraitKey(stored.OutcomeValue))
		}
		outcome.Events = append(outcome.Events, stored)
		prior = append(prior, stored)
	}

	if err := s.putEntity(ctx, entity); err != nil {
		return EvaluationOutcome{}, err
	}

	outcome.PersonalityState = entity.Personality
	outcome.PersonalityShifted = entity.Personality != before
	outcome.StabilityScore = stability.Score(prior, s.cfg.Stability, now)
	return outcome, nil
}

// reconcileConflict converges local entity state on the event another
// request already recorded for the same cooldown window.
func (s *Service) reconcileConflict(ctx context.Context, entity *domain.Entity, stored domain.EvolutionEvent, prior []domain.EvolutionEvent, now time.Time) {
	log.Printf(
		"evolution conflict entity_id=%s trigger=%s stored_outcome=%s",
		entity.ID, stored.TriggerKey, stored.OutcomeType,
	)
	switch stored.OutcomeType {
	case domain.OutcomeTraitReveal:
		entity.RevealTrait(domain.TraitKey(stored.OutcomeValue))
	case domain.OutcomePersonalityShift:
		to := domain.ParsePersonality(stored.OutcomeValue)
		entity.ShiftPersonality(to, personalityVisited(*entity, prior, to), now)
	}
	if err := s.audit.Emit(ctx, storage.AuditEvent{
		EventName: audit.EventEvolutionConflict,
		Severity:  string(audit.SeverityInfo),
		EntityID:  entity.ID,
		OwnerID:   entity.OwnerID,
		Reason:    "cooldown window already consumed by a concurrent request",
	}); err != nil {
		log.Printf("audit emit entity_id=%s: %v", entity.ID, err)
	}
}

// reconcileHistory reapplies committed evolution outcomes the entity record
// is missing. The event append and the entity write are separate store
// calls, so a failure between them can leave a committed event whose
// outcome never reached the entity. The event log is authoritative: traits
// and the personality state converge on it before the next decision runs.
func reconcileHistory(entity *domain.Entity, prior []domain.EvolutionEvent) {
	var lastShift domain.EvolutionEvent
	for _, evt := range prior {
		switch evt.OutcomeType {
		case domain.OutcomeTraitReveal:
			entity.RevealTrait(domain.TraitKey(evt.OutcomeValue))
		case domain.OutcomePersonalityShift:
			lastShift = evt
		}
	}
	if lastShift.OutcomeValue == "" {
		return
	}
	expected := domain.ParsePersonality(lastShift.OutcomeValue)
	if expected == entity.Personality {
		return
	}
	log.Printf(
		"entity behind event log entity_id=%s state=%s expected=%s",
		entity.ID, entity.Personality, expected,
	)
	entity.ShiftPersonality(expected, personalityVisited(*entity, prior, expected), lastShift.Timestamp)
}

// personalityVisited reports whether the entity has held the state before,
// judged from its current state and the from-states of its recorded shifts.
func personalityVisited(entity domain.Entity, events []domain.EvolutionEvent, state domain.Personality) bool {
	if state == entity.Personality {
		return true
	}
	for _, evt := range events {
		if evt.OutcomeType == domain.OutcomePersonalityShift && evt.FromState == state {
			return true
		}
	}
	return false
}

// ProgressReport describes partial progress toward one unmet condition.
type ProgressReport struct {
	ConditionKey string
	DisplayName  string
	Progress     float64
	MatchedCount int
	Required     int
	Satisfied    bool
}

// DiscoveryProgress evaluates all applicable conditions without mutating
// any state and reports normalized progress per condition.
func (s *Service) DiscoveryProgress(ctx context.Context, entityID, requesterOwnerID string, evalCtx evaluator.Context) ([]ProgressReport, error) {
	entity, err := s.loadOwnedEntity(ctx, entityID, requesterOwnerID)
	if err != nil {
		return nil, err
	}
	history, err := s.listInteractions(ctx, entityID)
	if err != nil {
		return nil, err
	}

	results := evaluator.Evaluate(entity, history, evalCtx, s.catalog, s.clock())
	reports := make([]ProgressReport, 0, len(results))
	for _, result := range results {
		reports = append(reports, ProgressReport{
			ConditionKey: result.Definition.Key,
			DisplayName:  result.Definition.DisplayName,
			Progress:     result.Progress,
			MatchedCount: result.MatchedCount,
			Required:     result.Definition.MinCount,
			Satisfied:    result.Satisfied,
		})
	}
	return reports, nil
}

// StabilityScore returns the entity's current stability score in [0,1].
func (s *Service) StabilityScore(ctx context.Context, entityID, requesterOwnerID string) (float64, error) {
	entity, err := s.loadOwnedEntity(ctx, entityID, requesterOwnerID)
	if err != nil {
		return 0, err
	}
	events, err := s.listEvolutionEvents(ctx, entity.ID)
	if err != nil {
		return 0, err
	}
	return stability.Score(events, s.cfg.Stability, s.clock()), nil
}

// PredictPersonality forecasts the entity's personality distribution after
// horizonDays. Probabilities are rounded to six decimal places and sum to 1
// within that tolerance.
func (s *Service) PredictPersonality(ctx context.Context, entityID, requesterOwnerID string, horizonDays int) (stability.Distribution, error) {
	entity, err := s.loadOwnedEntity(ctx, entityID, requesterOwnerID)
	if err != nil {
		return nil, err
	}
	events, err := s.listEvolutionEvents(ctx, entity.ID)
	if err != nil {
		return nil, err
	}
	dist, err := stability.Predict(entity.Personality, events, horizonDays, s.cfg.Stability)
	if err != nil {
		return nil, err
	}

	// Round to six decimals, then absorb the rounding residual into the
	// most likely state so the distribution still sums to 1.
	total := 0.0
	var top domain.Personality
	for state, p := range dist {
		rounded := math.Round(p*1e6) / 1e6
		dist[state] = rounded
		total += rounded
		if top == "" || rounded > dist[top] {
			top = state
		}
	}
	dist[top] += math.Round((1-total)*1e6) / 1e6
	return dist, nil
}

// ComputeEffects returns the entity's aggregate stat modifiers per effect
// domain.
func (s *Service) ComputeEffects(ctx context.Context, entityID, requesterOwnerID string) (map[domain.EffectDomain]domain.Modifier, error) {
	entity, err := s.loadOwnedEntity(ctx, entityID, requesterOwnerID)
	if err != nil {
		return nil, err
	}
	return s.effects.ComputeEffects(entity), nil
}

// RegisterEntity stores a new entity record.
func (s *Service) RegisterEntity(ctx context.Context, entity domain.Entity) (domain.Entity, error) {
	if entity.ID == "" {
		entityID, err := s.newID()
		if err != nil {
			return domain.Entity{}, errors.Wrap(errors.CodeUnknown, "generate entity id", err)
		}
		entity.ID = entityID
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = s.clock()
	}
	if entity.Personality == "" {
		entity.Personality = domain.PersonalityCalm
	}
	if err := entity.Validate(); err != nil {
		return domain.Entity{}, err
	}
	if err := s.putEntity(ctx, entity); err != nil {
		return domain.Entity{}, err
	}
	return entity, nil
}

// LogInteraction appends one interaction to an owned entity's history.
func (s *Service) LogInteraction(ctx context.Context, evt domain.InteractionEvent, requesterOwnerID string) error {
	if _, err := s.loadOwnedEntity(ctx, evt.EntityID, requesterOwnerID); err != nil {
		return err
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = s.clock()
	}
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.AppendInteraction(storeCtx, evt); err != nil {
		return s.storeError("append interaction", err)
	}
	return nil
}

// conditionFilter resolves an optional condition-key subset against the
// catalog. Unknown keys fail fast.
func (s *Service) conditionFilter(conditionKeys []string) (map[string]struct{}, error) {
	if len(conditionKeys) == 0 {
		return nil, nil
	}
	filter := make(map[string]struct{}, len(conditionKeys))
	for _, key := range conditionKeys {
		if _, err := s.catalog.Get(key); err != nil {
			return nil, err
		}
		filter[key] = struct{}{}
	}
	return filter, nil
}

// loadOwnedEntity loads an entity and verifies the requester owns it.
// Mismatches are audited before the error is returned.
func (s *Service) loadOwnedEntity(ctx context.Context, entityID, requesterOwnerID string) (domain.Entity, error) {
	if strings.TrimSpace(requesterOwnerID) == "" {
		return domain.Entity{}, errors.New(errors.CodeEntityEmptyOwnerID, "requester owner id is required")
	}
	entity, err := s.loadEntity(ctx, entityID)
	if err != nil {
		return domain.Entity{}, err
	}
	if entity.OwnerID != requesterOwnerID {
		log.Printf(
			"ownership violation entity_id=%s owner_id=%s requester_id=%s",
			entity.ID, entity.OwnerID, requesterOwnerID,
		)
		if err := s.audit.Emit(ctx, storage.AuditEvent{
			EventName:   audit.EventOwnershipViolation,
			Severity:    string(audit.SeverityWarn),
			EntityID:    entity.ID,
			OwnerID:     entity.OwnerID,
			RequesterID: requesterOwnerID,
			Reason:      "requester does not own entity",
		}); err != nil {
			log.Printf("audit emit entity_id=%s: %v", entity.ID, err)
		}
		return domain.Entity{}, errors.WithMetadata(
			errors.CodeOwnershipViolation,
			"requester does not own entity: "+entity.ID,
			map[string]string{"EntityID": entity.ID},
		)
	}
	return entity, nil
}

func (s *Service) loadEntity(ctx context.Context, entityID string) (domain.Entity, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	entity, err := s.store.GetEntity(storeCtx, entityID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return domain.Entity{}, errors.WithMetadata(
				errors.CodeEntityNotFound,
				"entity not found: "+entityID,
				map[string]string{"EntityID": entityID},
			)
		}
		return domain.Entity{}, s.storeError("get entity", err)
	}
	return entity, nil
}

func (s *Service) putEntity(ctx context.Context, entity domain.Entity) error {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.PutEntity(storeCtx, entity); err != nil {
		return s.storeError("put entity", err)
	}
	return nil
}

func (s *Service) listInteractions(ctx context.Context, entityID string) ([]domain.InteractionEvent, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	history, err := s.store.ListInteractions(storeCtx, entityID)
	if err != nil {
		return nil, s.storeError("list interactions", err)
	}
	return history, nil
}

func (s *Service) listEvolutionEvents(ctx context.Context, entityID string) ([]domain.EvolutionEvent, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	events, err := s.store.ListEvolutionEvents(storeCtx, entityID)
	if err != nil {
		return nil, s.storeError("list evolution events", err)
	}
	return events, nil
}

func (s *Service) appendEvolutionEvent(ctx context.Context, evt domain.EvolutionEvent) (domain.EvolutionEvent, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	stored, err := s.store.AppendEvolutionEvent(storeCtx, evt)
	if err != nil {
		if stderrors.Is(err, storage.ErrEvolutionConflict) {
			return stored, err
		}
		return domain.EvolutionEvent{}, s.storeError("append evolution event", err)
	}
	return stored, nil
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.StoreTimeout
	if timeout <= 0 {
		timeout = timeouts.StoreIO
	}
	return context.WithTimeout(ctx, timeout)
}

// storeError maps store failures to the engine error taxonomy. Deadline and
// cancellation failures become DATA_STORE_UNAVAILABLE so callers can retry.
func (s *Service) storeError(op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.Wrap(errors.CodeStoreUnavailable, op+": history store unavailable", err)
	}
	if code := errors.GetCode(err); code != errors.CodeUnknown {
		return err
	}
	return errors.Wrap(errors.CodeStoreUnavailable, op+": history store failure", err)
}

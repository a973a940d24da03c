package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ferndale/paddock/internal/traits/domain"
	"github.com/ferndale/paddock/internal/traits/storage"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testEntity() domain.Entity {
	return domain.Entity{
		ID:          "h-1",
		OwnerID:     "u-1",
		Kind:        domain.EntityKindHorse,
		Personality: domain.PersonalityCalm,
		CreatedAt:   testNow.Add(-30 * 24 * time.Hour),
	}
}

func TestEntityRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	entity := testEntity()
	entity.RevealTrait("velvet_coat")
	entity.RecordProgress("groom_streak", 3)

	if err := store.PutEntity(ctx, entity); err != nil {
		t.Fatalf("put entity: %v", err)
	}

	loaded, err := store.GetEntity(ctx, "h-1")
	if err != nil {
		t.Fatalf("get entity: %v", err)
	}
	if !loaded.RevealedTraits.Has("velvet_coat") {
		t.Fatal("expected revealed trait to round trip")
	}
	if got := loaded.DiscoveryProgress["groom_streak"]; got != 3 {
		t.Fatalf("progress = %d, want 3", got)
	}

	// Mutating the loaded copy must not leak into the store.
	loaded.RevealTrait("gentle_eye")
	again, err := store.GetEntity(ctx, "h-1")
	if err != nil {
		t.Fatalf("get entity again: %v", err)
	}
	if again.RevealedTraits.Has("gentle_eye") {
		t.Fatal("expected stored entity to be isolated from caller mutation")
	}
}

func TestGetEntityNotFound(t *testing.T) {
	store := New()
	_, err := store.GetEntity(context.Background(), "ghost")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAppendEvolutionEventAssignsSequence(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		stored, err := store.AppendEvolutionEvent(ctx, domain.EvolutionEvent{
			ID:             "evt",
			EntityID:       "h-1",
			TriggerKey:     "trigger",
			CatalogVersion: 1,
			OutcomeType:    domain.OutcomeNoop,
			CooldownBucket: int64(i),
			Timestamp:      testNow,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if stored.Seq != uint64(i) {
			t.Fatalf("seq = %d, want %d", stored.Seq, i)
		}
	}
}

func TestAppendEvolutionEventCooldownConflict(t *testing.T) {
	store := New()
	ctx := context.Background()

	first := domain.EvolutionEvent{
		ID:             "evt-1",
		EntityID:       "h-1",
		TriggerKey:     "groom_streak",
		CatalogVersion: 1,
		OutcomeType:    domain.OutcomeTraitReveal,
		OutcomeValue:   "velvet_coat",
		CooldownBucket: 42,
		Timestamp:      testNow,
	}
	if _, err := store.AppendEvolutionEvent(ctx, first); err != nil {
		t.Fatalf("first append: %v", err)
	}

	dup := first
	dup.ID = "evt-2"
	dup.OutcomeValue = "gentle_eye"
	stored, err := store.AppendEvolutionEvent(ctx, dup)
	if !errors.Is(err, storage.ErrEvolutionConflict) {
		t.Fatalf("expected ErrEvolutionConflict, got %v", err)
	}
	if stored.ID != "evt-1" || stored.OutcomeValue != "velvet_coat" {
		t.Fatalf("stored event = %+v, want first writer's event", stored)
	}

	events, err := store.ListEvolutionEvents(ctx, "h-1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events len = %d, want 1", len(events))
	}
}

func TestGetOwnersSkipsMissing(t *testing.T) {
	store := New()
	ctx := context.Background()

	a := testEntity()
	b := testEntity()
	b.ID = "h-2"
	b.OwnerID = "u-2"
	if err := store.PutEntity(ctx, a); err != nil {
		t.Fatalf("put a: %v", err)
	}
	if err := store.PutEntity(ctx, b); err != nil {
		t.Fatalf("put b: %v", err)
	}

	owners, err := store.GetOwners(ctx, []string{"h-1", "h-2", "ghost"})
	if err != nil {
		t.Fatalf("get owners: %v", err)
	}
	if len(owners) != 2 {
		t.Fatalf("owners len = %d, want 2", len(owners))
	}
	if owners["h-1"] != "u-1" || owners["h-2"] != "u-2" {
		t.Fatalf("owners = %v", owners)
	}
	if _, ok := owners["ghost"]; ok {
		t.Fatal("expected missing id to be absent")
	}
}

func TestInteractionRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := store.AppendInteraction(ctx, domain.InteractionEvent{
			EntityID:  "h-1",
			Kind:      domain.InteractionGrooming,
			Value:     int64(i),
			Timestamp: testNow.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	history, err := store.ListInteractions(ctx, "h-1")
	if err != nil {
		t.Fatalf("list interactions: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history len = %d, want 3", len(history))
	}
	for i, evt := range history {
		if evt.Value != int64(i) {
			t.Fatalf("history[%d].Value = %d, want %d", i, evt.Value, i)
		}
	}
}

func TestAuditEventsRecorded(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.AppendAuditEvent(ctx, storage.AuditEvent{
		EventName:   "ownership_violation",
		Severity:    "WARN",
		EntityID:    "h-1",
		OwnerID:     "u-1",
		RequesterID: "u-2",
		Timestamp:   testNow,
	})
	if err != nil {
		t.Fatalf("append audit: %v", err)
	}

	audits := store.AuditEvents()
	if len(audits) != 1 {
		t.Fatalf("audits len = %d, want 1", len(audits))
	}
	if audits[0].EventName != "ownership_violation" || audits[0].RequesterID != "u-2" {
		t.Fatalf("audit = %+v", audits[0])
	}
}

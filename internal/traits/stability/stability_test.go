package stability

import (
	"testing"
	"time"

	"github.com/ferndale/paddock/internal/traits/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func shiftAt(at time.Time, from, to domain.Personality) domain.EvolutionEvent {
	return domain.EvolutionEvent{
		ID:           "evt",
		EntityID:     "h-1",
		TriggerKey:   "trigger",
		OutcomeType:  domain.OutcomePersonalityShift,
		OutcomeValue: string(to),
		FromState:    from,
		Timestamp:    at,
	}
}

func noopAt(at time.Time) domain.EvolutionEvent {
	return domain.EvolutionEvent{
		ID:          "evt",
		EntityID:    "h-1",
		TriggerKey:  "trigger",
		OutcomeType: domain.OutcomeNoop,
		Timestamp:   at,
	}
}

func TestScoreZeroHistoryIsNeutral(t *testing.T) {
	if got := Score(nil, DefaultConfig(), testNow); got != NeutralScore {
		t.Fatalf("score = %v, want neutral %v", got, NeutralScore)
	}
}

func TestScoreStaysInBounds(t *testing.T) {
	cfg := DefaultConfig()

	// An entity shifting far more often than the transition interval allows
	// clamps to zero instead of going negative.
	var churny []domain.EvolutionEvent
	for i := 0; i < 100; i++ {
		at := testNow.Add(-time.Duration(i) * time.Hour)
		churny = append(churny, shiftAt(at, domain.PersonalityCalm, domain.PersonalitySpirited))
	}
	if got := Score(churny, cfg, testNow); got != 0 {
		t.Fatalf("churny score = %v, want 0", got)
	}

	// History with events but no shifts scores a perfect 1.
	steady := []domain.EvolutionEvent{noopAt(testNow.Add(-24 * time.Hour))}
	if got := Score(steady, cfg, testNow); got != 1 {
		t.Fatalf("steady score = %v, want 1", got)
	}
}

func TestScoreMonotonicInShiftCount(t *testing.T) {
	cfg := DefaultConfig()

	few := []domain.EvolutionEvent{
		shiftAt(testNow.Add(-10*24*time.Hour), domain.PersonalityCalm, domain.PersonalitySpirited),
	}
	many := append([]domain.EvolutionEvent{}, few...)
	for i := 1; i < 5; i++ {
		many = append(many, shiftAt(testNow.Add(-time.Duration(i)*24*time.Hour), domain.PersonalitySpirited, domain.PersonalityCalm))
	}

	fewScore := Score(few, cfg, testNow)
	manyScore := Score(many, cfg, testNow)
	if manyScore >= fewScore {
		t.Fatalf("more shifts did not lower score: few=%v many=%v", fewScore, manyScore)
	}
}

func TestScoreIgnoresShiftsOutsideWindow(t *testing.T) {
	cfg := DefaultConfig()

	old := []domain.EvolutionEvent{
		shiftAt(testNow.Add(-200*24*time.Hour), domain.PersonalityCalm, domain.PersonalitySpirited),
	}
	recent := []domain.EvolutionEvent{
		shiftAt(testNow.Add(-24*time.Hour), domain.PersonalityCalm, domain.PersonalitySpirited),
	}

	oldScore := Score(old, cfg, testNow)
	recentScore := Score(recent, cfg, testNow)
	if oldScore != 1 {
		t.Fatalf("out-of-window shift score = %v, want 1", oldScore)
	}
	if recentScore >= oldScore {
		t.Fatalf("in-window shift should lower score: old=%v recent=%v", oldScore, recentScore)
	}
}

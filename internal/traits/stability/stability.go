// Package stability scores behavioral stability and forecasts future
// personality states from an entity's evolution history.
package stability

import (
	"time"

	"github.com/ferndale/paddock/internal/traits/domain"
)

// NeutralScore is the defined stability for entities with no evolution
// history at all: no evidence either way.
const NeutralScore = 0.5

// Config parameterizes stability scoring and prediction.
type Config struct {
	// Window is the trailing window transitions are scored over.
	Window time.Duration
	// TransitionInterval is the expected spacing between personality
	// shifts; it sets both the churn ceiling for scoring and the step
	// length for prediction.
	TransitionInterval time.Duration
	// MaxHorizonDays bounds prediction horizons.
	MaxHorizonDays int
}

// DefaultConfig returns the shipped stability parameters.
func DefaultConfig() Config {
	return Config{
		Window:             90 * 24 * time.Hour,
		TransitionInterval: 7 * 24 * time.Hour,
		MaxHorizonDays:     365,
	}
}

// Score computes a stability score in [0,1] from the variance of
// personality shifts within the trailing window. Fewer shifts yield a
// higher score; an entity that has never evolved scores NeutralScore.
func Score(events []domain.EvolutionEvent, cfg Config, now time.Time) float64 {
	if len(events) == 0 {
		return NeutralScore
	}

	cutoff := now.Add(-cfg.Window)
	shifts := 0
	for _, evt := range events {
		if evt.OutcomeType != domain.OutcomePersonalityShift {
			continue
		}
		if evt.Timestamp.Before(cutoff) {
			continue
		}
		shifts++
	}

	// The churn ceiling is the number of transition intervals that fit in
	// the window; an entity shifting every interval scores zero.
	maxShifts := float64(cfg.Window) / float64(cfg.TransitionInterval)
	if maxShifts <= 0 {
		return NeutralScore
	}

	score := 1 - float64(shifts)/maxShifts
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

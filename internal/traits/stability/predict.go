package stability

import (
	"strconv"

	"github.com/ferndale/paddock/internal/platform/errors"
	"github.com/ferndale/paddock/internal/traits/domain"
)

// priorWeight is the pseudo-count blended into each entity's observed
// transition row. Rows with no observations fall back entirely to the
// catalog-wide prior.
const priorWeight = 4.0

// priorStay is the prior probability of remaining in the current state
// over one transition interval; the remainder spreads uniformly over the
// other known states.
const priorStay = 0.55

// Distribution maps personality states to probabilities. Values sum to 1
// within floating-point tolerance.
type Distribution map[domain.Personality]float64

// Predict forecasts the probability distribution over personality states
// after horizonDays, using a Markov forward simulation.
//
// Transition probabilities are estimated from the entity's own shift
// history, blended with a catalog-wide prior that dominates when the
// entity has little history. Prediction is fully deterministic: the same
// history snapshot and horizon always produce the same distribution.
func Predict(current domain.Personality, events []domain.EvolutionEvent, horizonDays int, cfg Config) (Distribution, error) {
	if horizonDays <= 0 || horizonDays > cfg.MaxHorizonDays {
		return nil, errors.WithMetadata(
			errors.CodeInvalidTimeframe,
			"prediction horizon out of range: "+strconv.Itoa(horizonDays),
			map[string]string{"MaxHorizonDays": strconv.Itoa(cfg.MaxHorizonDays)},
		)
	}

	states := domain.KnownPersonalities()
	n := len(states)

	matrix := transitionMatrix(states, events)

	// Start vector: all mass on the current state, or uniform when the
	// entity carries the unknown/legacy tag.
	vector := make([]float64, n)
	if idx := domain.PersonalityIndex(current); idx >= 0 {
		vector[idx] = 1
	} else {
		for i := range vector {
			vector[i] = 1 / float64(n)
		}
	}

	intervalDays := int(cfg.TransitionInterval.Hours() / 24)
	if intervalDays <= 0 {
		intervalDays = 1
	}
	steps := horizonDays / intervalDays

	for step := 0; step < steps; step++ {
		next := make([]float64, n)
		for from := 0; from < n; from++ {
			if vector[from] == 0 {
				continue
			}
			for to := 0; to < n; to++ {
				next[to] += vector[from] * matrix[from][to]
			}
		}
		vector = next
	}

	// Renormalize to absorb accumulated floating-point drift.
	total := 0.0
	for _, p := range vector {
		total += p
	}
	dist := make(Distribution, n)
	for i, state := range states {
		if total > 0 {
			dist[state] = vector[i] / total
		} else {
			dist[state] = 1 / float64(n)
		}
	}
	return dist, nil
}

// transitionMatrix estimates a row-stochastic matrix over the known states
// from the entity's shift events, blended with the uniform-stay prior.
func transitionMatrix(states []domain.Personality, events []domain.EvolutionEvent) [][]float64 {
	n := len(states)

	counts := make([][]float64, n)
	rowTotals := make([]float64, n)
	for i := range counts {
		counts[i] = make([]float64, n)
	}
	for _, evt := range events {
		if evt.OutcomeType != domain.OutcomePersonalityShift {
			continue
		}
		from := domain.PersonalityIndex(evt.FromState)
		to := domain.PersonalityIndex(domain.ParsePersonality(evt.OutcomeValue))
		if from < 0 || to < 0 {
			continue
		}
		counts[from][to]++
		rowTotals[from]++
	}

	matrix := make([][]float64, n)
	for from := 0; from < n; from++ {
		matrix[from] = make([]float64, n)
		denom := rowTotals[from] + priorWeight
		for to := 0; to < n; to++ {
			matrix[from][to] = (counts[from][to] + priorWeight*priorCell(from, to, n)) / denom
		}
	}
	return matrix
}

// priorCell is the catalog-wide prior transition probability.
func priorCell(from, to, n int) float64 {
	if from == to {
		return priorStay
	}
	return (1 - priorStay) / float64(n-1)
}

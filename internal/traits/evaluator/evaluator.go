// Package evaluator determines which catalog conditions an entity
// currently satisfies.
//
// Evaluation is a pure function of a history snapshot, the catalog, and an
// optional evaluation context. It never mutates state and is safe to call
// any number of times.
package evaluator

import (
	"sort"
	"time"

	"github.com/ferndale/paddock/internal/traits/catalog"
	"github.com/ferndale/paddock/internal/traits/domain"
)

// Placement is a competition placement supplied by the caller for
// placement-gated (exotic) conditions.
type Placement struct {
	EventName string
	Placement int
	At        time.Time
}

// Context carries evaluation inputs beyond the interaction history.
type Context struct {
	Placements []Placement
}

// BestPlacement returns the lowest (best) placement in the context, or 0
// when no placements are present.
func (c Context) BestPlacement() int {
	best := 0
	for _, p := range c.Placements {
		if p.Placement <= 0 {
			continue
		}
		if best == 0 || p.Placement < best {
			best = p.Placement
		}
	}
	return best
}

// Result reports one condition's evaluation against an entity.
type Result struct {
	Definition catalog.ConditionDefinition
	Satisfied  bool
	// Progress is a normalized 0-1 value reported even when the condition
	// is unmet, for partial-progress display.
	Progress float64
	// MatchedCount is the number of qualifying interactions in the window.
	MatchedCount int
}

// Evaluate applies every applicable catalog condition to the entity's
// history snapshot and returns one result per condition in catalog order.
func Evaluate(entity domain.Entity, history []domain.InteractionEvent, evalCtx Context, cat *catalog.Catalog, now time.Time) []Result {
	ordered := orderedHistory(history)
	defs := cat.ForKind(entity.Kind)
	results := make([]Result, 0, len(defs))
	for _, def := range defs {
		results = append(results, evaluateOne(def, ordered, evalCtx, now))
	}
	return results
}

func evaluateOne(def catalog.ConditionDefinition, history []domain.InteractionEvent, evalCtx Context, now time.Time) Result {
	windowed := restrictWindow(def.Window, history, now)

	matched := 0
	for _, evt := range windowed {
		if evt.Kind != def.Interaction {
			continue
		}
		if def.MinValue > 0 && evt.Value < def.MinValue {
			continue
		}
		matched++
	}

	progress := float64(matched) / float64(def.MinCount)
	if progress > 1 {
		progress = 1
	}

	satisfied := matched >= def.MinCount
	if def.RequiresPlacement {
		best := evalCtx.BestPlacement()
		if best == 0 || best > def.MaxPlacement {
			satisfied = false
		}
	}

	return Result{
		Definition:   def,
		Satisfied:    satisfied,
		Progress:     progress,
		MatchedCount: matched,
	}
}

// restrictWindow returns the slice of history the condition may see.
func restrictWindow(window catalog.LookbackWindow, history []domain.InteractionEvent, now time.Time) []domain.InteractionEvent {
	switch window.Kind {
	case catalog.WindowTrailing:
		cutoff := now.Add(-window.Duration)
		var out []domain.InteractionEvent
		for _, evt := range history {
			if !evt.Timestamp.Before(cutoff) {
				out = append(out, evt)
			}
		}
		return out
	case catalog.WindowLastN:
		if len(history) <= window.Count {
			return history
		}
		return history[len(history)-window.Count:]
	default:
		return history
	}
}

// orderedHistory returns a timestamp-ascending copy of the snapshot so the
// caller's slice is never reordered.
func orderedHistory(history []domain.InteractionEvent) []domain.InteractionEvent {
	out := make([]domain.InteractionEvent, len(history))
	copy(out, history)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

package scoring

import (
	"math"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/internal/personas"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// Engine computes deterministic preliminary scores from persona bracket
// tables. Scoring is a pure function of (ratios, persona): no I/O, no
// shared state, safe for concurrent use.
type Engine struct {
	registry *personas.Registry
	logger   *logger.Logger
}

// NewEngine creates a scoring engine over an injected persona registry.
func NewEngine(registry *personas.Registry, log *logger.Logger) *Engine {
	return &Engine{
		registry: registry,
		logger:   log,
	}
}

// Score maps a ratio snapshot to a 0-100 preliminary score for the given
// persona. ok is false when no metric referenced by the persona's table
// carried a value (the insufficient-data signal). An unknown persona id
// is a configuration error.
//
// Per category: each present metric awards the points of the first
// declared bracket containing its value (0 when none matches); the
// category's raw sum is weighted and accumulated against the weighted
// maximum, and the final score is the rounded percentage.
func (e *Engine) Score(ratios *contracts.KeyRatios, persona contracts.PersonaID) (int, bool, error) {
	criteria, err := e.registry.Get(persona)
	if err != nil {
		return 0, false, err
	}

	totalWeighted := 0.0
	maxWeighted := 0.0
	anyMetric := false

	for _, cat := range criteria.Categories {
		raw := 0.0
		for _, mb := range cat.Metrics {
			value, present := ratios.Metric(mb.Metric)
			if !present {
				continue
			}
			anyMetric = true
			points, _, matched := matchBracket(mb.Brackets, value)
			if !matched {
				e.logger.WithFields(map[string]interface{}{
					"persona": persona,
					"metric":  mb.Metric,
					"value":   value,
				}).Debug("Metric value outside every declared bracket, no points awarded")
				continue
			}
			raw += points
		}
		totalWeighted += raw * cat.Weight
		maxWeighted += cat.MaxPoints * cat.Weight
	}

	if !anyMetric {
		return 0, false, nil
	}

	return roundScore(totalWeighted, maxWeighted), true, nil
}

// Breakdown runs the same bracket matching as Score but records, per
// present metric, the matched value, points and bracket label. For any
// (ratios, persona) pair the breakdown's score equals Score's result.
func (e *Engine) Breakdown(ratios *contracts.KeyRatios, persona contracts.PersonaID) (*contracts.ScoreBreakdown, error) {
	criteria, err := e.registry.Get(persona)
	if err != nil {
		return nil, err
	}

	breakdown := &contracts.ScoreBreakdown{
		PersonaID:   criteria.ID,
		PersonaName: criteria.Name,
		Categories:  make([]contracts.CategoryBreakdown, 0, len(criteria.Categories)),
	}

	anyMetric := false
	for _, cat := range criteria.Categories {
		cb := contracts.CategoryBreakdown{
			Name:      cat.Name,
			Weight:    cat.Weight,
			MaxPoints: cat.MaxPoints,
			Metrics:   make([]contracts.MetricBreakdown, 0, len(cat.Metrics)),
		}

		for _, mb := range cat.Metrics {
			value, present := ratios.Metric(mb.Metric)
			if !present {
				continue
			}
			anyMetric = true

			points, label, matched := matchBracket(mb.Brackets, value)
			if !matched {
				// Value outside every declared range awards nothing.
				points, label = 0, "unclassified"
			}
			cb.RawPoints += points
			cb.Metrics = append(cb.Metrics, contracts.MetricBreakdown{
				Metric: mb.Metric,
				Value:  value,
				Points: points,
				Label:  label,
			})
		}

		cb.WeightedPoints = cb.RawPoints * cat.Weight
		breakdown.TotalWeighted += cb.WeightedPoints
		breakdown.MaxWeighted += cat.MaxPoints * cat.Weight
		breakdown.Categories = append(breakdown.Categories, cb)
	}

	if !anyMetric {
		breakdown.Insufficient = true
		return breakdown, nil
	}

	breakdown.Score = roundScore(breakdown.TotalWeighted, breakdown.MaxWeighted)
	return breakdown, nil
}

// IsOpportunity reports whether the snapshot scores at or above the
// persona's minimum threshold. Insufficient data is never an opportunity.
func (e *Engine) IsOpportunity(ratios *contracts.KeyRatios, persona contracts.PersonaID) (bool, error) {
	score, ok, err := e.Score(ratios, persona)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	threshold, err := e.registry.MinThreshold(persona)
	if err != nil {
		return false, err
	}
	return score >= threshold, nil
}

// matchBracket scans the brackets in declaration order and returns the
// first containing the value.
func matchBracket(brackets []contracts.Bracket, value float64) (float64, string, bool) {
	for _, b := range brackets {
		if b.Contains(value) {
			return b.Points, b.Label, true
		}
	}
	return 0, "", false
}

func roundScore(total, max float64) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(total / max * 100))
}

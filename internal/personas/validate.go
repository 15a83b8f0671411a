package personas

import (
	"fmt"
	"math"
	"sort"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

// weightEpsilon is the tolerance for category weight and point sums.
const weightEpsilon = 0.01

// rangeEpsilon is the tolerance for bracket boundary comparisons.
const rangeEpsilon = 1e-9

// ValidationError reports one configuration defect in a persona table.
// A defect aborts startup; bracket tables are hand-authored and a silent
// gap or overlap would corrupt every score computed from them.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks one persona table for structural defects: weights that
// do not sum to 1.0, bracket tables with gaps or overlaps, and category
// point ceilings a perfect record could not reach.
func Validate(c *contracts.ScoringCriteria) error {
	if c.ID == "" {
		return ValidationError{"id", "required"}
	}
	if c.Name == "" {
		return ValidationError{"name", "required"}
	}
	if c.MinThreshold < 0 || c.MinThreshold > 100 {
		return ValidationError{"min_threshold", "must be in [0,100]"}
	}
	if len(c.Categories) == 0 {
		return ValidationError{"categories", "at least one required"}
	}

	weightSum := 0.0
	for _, cat := range c.Categories {
		if err := validateCategory(cat); err != nil {
			return err
		}
		weightSum += cat.Weight
	}

	if math.Abs(weightSum-1.0) > weightEpsilon {
		return ValidationError{
			Field:   "categories",
			Message: fmt.Sprintf("weights must sum to 1.0, got %.4f", weightSum),
		}
	}

	return nil
}

func validateCategory(cat contracts.Category) error {
	field := fmt.Sprintf("categories[%s]", cat.Name)

	if cat.Name == "" {
		return ValidationError{"categories", "category name required"}
	}
	if cat.Weight <= 0 || cat.Weight > 1 {
		return ValidationError{field + ".weight", "must be in (0,1]"}
	}
	if cat.MaxPoints <= 0 {
		return ValidationError{field + ".max_points", "must be > 0"}
	}
	if len(cat.Metrics) == 0 {
		return ValidationError{field + ".metrics", "at least one required"}
	}

	bestSum := 0.0
	seen := make(map[contracts.MetricID]bool, len(cat.Metrics))
	for _, mb := range cat.Metrics {
		mfield := fmt.Sprintf("%s.metrics[%s]", field, mb.Metric)

		if !mb.Metric.Valid() {
			return ValidationError{mfield, "unknown metric id"}
		}
		if seen[mb.Metric] {
			return ValidationError{mfield, "duplicate metric in category"}
		}
		seen[mb.Metric] = true

		best, err := validateBrackets(mfield, mb.Brackets)
		if err != nil {
			return err
		}
		bestSum += best
	}

	if math.Abs(bestSum-cat.MaxPoints) > weightEpsilon {
		return ValidationError{
			Field: field + ".max_points",
			Message: fmt.Sprintf("best bracket points sum to %.2f, max_points is %.2f",
				bestSum, cat.MaxPoints),
		}
	}

	return nil
}

// validateBrackets asserts the bracket table fully covers its domain with
// no gaps and no overlaps beyond shared endpoints, and returns the best
// point award in the table. Declaration order is how ties at shared
// endpoints resolve, so order itself is not constrained here.
func validateBrackets(field string, brackets []contracts.Bracket) (float64, error) {
	if len(brackets) == 0 {
		return 0, ValidationError{field, "at least one bracket required"}
	}

	best := 0.0
	for i, b := range brackets {
		if b.Min > b.Max {
			return 0, ValidationError{
				Field:   fmt.Sprintf("%s.brackets[%d]", field, i),
				Message: fmt.Sprintf("min %.4f exceeds max %.4f", b.Min, b.Max),
			}
		}
		if b.Points < 0 {
			return 0, ValidationError{
				Field:   fmt.Sprintf("%s.brackets[%d]", field, i),
				Message: "points must be >= 0",
			}
		}
		if b.Label == "" {
			return 0, ValidationError{
				Field:   fmt.Sprintf("%s.brackets[%d]", field, i),
				Message: "label required",
			}
		}
		if b.Points > best {
			best = b.Points
		}
	}

	// Coverage check on a copy sorted by lower bound.
	sorted := make([]contracts.Bracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		gap := cur.Min - prev.Max
		if gap > rangeEpsilon {
			return 0, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("gap between %.4f and %.4f", prev.Max, cur.Min),
			}
		}
		if gap < -rangeEpsilon {
			return 0, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("brackets %q and %q overlap", prev.Label, cur.Label),
			}
		}
	}

	return best, nil
}

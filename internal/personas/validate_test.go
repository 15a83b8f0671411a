package personas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

// validCriteria is a minimal well-formed persona for mutation tests.
func validCriteria() *contracts.ScoringCriteria {
	return &contracts.ScoringCriteria{
		ID:           "test_persona",
		Name:         "Test Persona",
		MinThreshold: 60,
		Categories: []contracts.Category{
			{
				Name: "only", Weight: 1.0, MaxPoints: 10,
				Metrics: []contracts.MetricBrackets{
					{Metric: contracts.MetricPERatio, Brackets: []contracts.Bracket{
						{Min: 0, Max: 15, Points: 10, Label: "cheap"},
						{Min: 15, Max: 1e9, Points: 0, Label: "expensive"},
						{Min: -1e9, Max: 0, Points: 0, Label: "negative"},
					}},
				},
			},
		},
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	assert.NoError(t, Validate(validCriteria()))
}

func TestValidateBuiltinsAllPass(t *testing.T) {
	for _, c := range builtinCriteria() {
		assert.NoError(t, Validate(c), "builtin persona %s", c.ID)
	}
}

func TestValidateRejectsWeightSum(t *testing.T) {
	c := validCriteria()
	c.Categories[0].Weight = 0.8

	err := Validate(c)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "sum to 1.0")
}

func TestValidateRejectsBracketGap(t *testing.T) {
	c := validCriteria()
	c.Categories[0].Metrics[0].Brackets = []contracts.Bracket{
		{Min: 0, Max: 10, Points: 10, Label: "low"},
		{Min: 20, Max: 1e9, Points: 0, Label: "high"}, // gap (10,20)
	}

	err := Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gap")
}

func TestValidateRejectsBracketOverlap(t *testing.T) {
	c := validCriteria()
	c.Categories[0].Metrics[0].Brackets = []contracts.Bracket{
		{Min: 0, Max: 15, Points: 10, Label: "low"},
		{Min: 10, Max: 1e9, Points: 0, Label: "high"}, // overlaps [10,15]
	}

	err := Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}

func TestValidateAllowsSharedEndpoints(t *testing.T) {
	// Adjacent brackets sharing an endpoint are the convention, not a
	// defect.
	assert.NoError(t, Validate(validCriteria()))
}

func TestValidateRejectsMaxPointsMismatch(t *testing.T) {
	c := validCriteria()
	c.Categories[0].MaxPoints = 25 // best brackets only sum to 10

	err := Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_points")
}

func TestValidateRejectsUnknownMetric(t *testing.T) {
	c := validCriteria()
	c.Categories[0].Metrics[0].Metric = "sharpeRatio"

	err := Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown metric")
}

func TestValidateRejectsDuplicateMetric(t *testing.T) {
	c := validCriteria()
	c.Categories[0].Metrics = append(c.Categories[0].Metrics, c.Categories[0].Metrics[0])
	c.Categories[0].MaxPoints = 20

	err := Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestValidateRejectsInvertedBracket(t *testing.T) {
	c := validCriteria()
	c.Categories[0].Metrics[0].Brackets[0] = contracts.Bracket{
		Min: 15, Max: 0, Points: 10, Label: "inverted",
	}

	err := Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestValidateRejectsThresholdOutOfRange(t *testing.T) {
	c := validCriteria()
	c.MinThreshold = 140

	assert.Error(t, Validate(c))
}

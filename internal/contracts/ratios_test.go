package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricLookupCoversEveryID(t *testing.T) {
	ratios := &KeyRatios{
		PERatio:          Float(1),
		PBRatio:          Float(2),
		PSRatio:          Float(3),
		PEGRatio:         Float(4),
		EVToEBITDA:       Float(5),
		ROE:              Float(6),
		ROA:              Float(7),
		GrossMargin:      Float(8),
		OperatingMargin:  Float(9),
		NetMargin:        Float(10),
		DebtToEquity:     Float(11),
		CurrentRatio:     Float(12),
		QuickRatio:       Float(13),
		InterestCoverage: Float(14),
		RevenueGrowth:    Float(15),
		EarningsGrowth:   Float(16),
		FCFYield:         Float(17),
		DividendYield:    Float(18),
		PayoutRatio:      Float(19),
	}

	// Every declared identifier must resolve to a distinct field.
	seen := make(map[float64]MetricID)
	for _, id := range AllMetricIDs() {
		v, ok := ratios.Metric(id)
		require.True(t, ok, "metric %s not resolved", id)
		prev, dup := seen[v]
		require.False(t, dup, "metrics %s and %s resolve to the same field", prev, id)
		seen[v] = id
	}
	assert.Len(t, seen, len(AllMetricIDs()))
}

func TestMetricDistinguishesZeroFromAbsent(t *testing.T) {
	ratios := &KeyRatios{DebtToEquity: Float(0)}

	v, ok := ratios.Metric(MetricDebtToEquity)
	assert.True(t, ok, "an explicit zero is a real value")
	assert.Equal(t, 0.0, v)

	_, ok = ratios.Metric(MetricPERatio)
	assert.False(t, ok, "a nil field is absence")
}

func TestMetricNilReceiver(t *testing.T) {
	var ratios *KeyRatios
	_, ok := ratios.Metric(MetricPERatio)
	assert.False(t, ok)
	assert.Equal(t, 0, ratios.AvailableCount())
}

func TestMetricUnknownID(t *testing.T) {
	ratios := &KeyRatios{PERatio: Float(10)}
	_, ok := ratios.Metric(MetricID("sharpeRatio"))
	assert.False(t, ok)
}

func TestAvailableCount(t *testing.T) {
	assert.Equal(t, 0, (&KeyRatios{}).AvailableCount())
	assert.Equal(t, 2, (&KeyRatios{PERatio: Float(10), ROE: Float(0.2)}).AvailableCount())
}

func TestMetricIDValid(t *testing.T) {
	for _, id := range AllMetricIDs() {
		assert.True(t, id.Valid(), "metric %s", id)
	}
	assert.False(t, MetricID("sharpeRatio").Valid())
	assert.False(t, MetricID("").Valid())
}

func TestHasRatios(t *testing.T) {
	var nilData *FinancialData
	assert.False(t, nilData.HasRatios())
	assert.False(t, (&FinancialData{}).HasRatios())
	assert.False(t, (&FinancialData{Ratios: &KeyRatios{}}).HasRatios())
	assert.True(t, (&FinancialData{Ratios: &KeyRatios{PERatio: Float(10)}}).HasRatios())
}

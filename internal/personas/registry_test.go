package personas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

func TestBuiltinRegistry(t *testing.T) {
	registry, err := Builtin()
	require.NoError(t, err)

	ids := registry.IDs()
	assert.Len(t, ids, 6)
	assert.Equal(t, []contracts.PersonaID{
		QualityValue, GARP, DeepValue, DividendIncome, HighGrowth, Fortress,
	}, ids)
}

func TestRegistryGetUnknown(t *testing.T) {
	registry, err := Builtin()
	require.NoError(t, err)

	_, err = registry.Get("day_trader")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "day_trader")
}

func TestRegistryMinThreshold(t *testing.T) {
	registry, err := Builtin()
	require.NoError(t, err)

	threshold, err := registry.MinThreshold(Fortress)
	require.NoError(t, err)
	assert.Equal(t, 75, threshold)
}

func TestNewRegistryRejectsDuplicateID(t *testing.T) {
	c := validCriteria()
	_, err := NewRegistry(c, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistryRejectsInvalidTable(t *testing.T) {
	c := validCriteria()
	c.Categories[0].Weight = 0.5

	_, err := NewRegistry(c)
	assert.Error(t, err)
}

func TestNewRegistryRequiresAtLeastOne(t *testing.T) {
	_, err := NewRegistry()
	assert.Error(t, err)
}

const overrideYAML = `
personas:
  - id: quality_value
    name: Stricter Quality
    description: Overridden table.
    min_threshold: 80
    categories:
      - name: valuation
        weight: 1.0
        max_points: 10
        metrics:
          - metric: peRatio
            brackets:
              - {min: 0, max: 12, points: 10, label: cheap}
              - {min: 12, max: 1000000000, points: 0, label: expensive}
              - {min: -1000000000, max: 0, points: 0, label: negative}
  - id: contrarian
    name: Contrarian
    description: New persona from file.
    min_threshold: 55
    categories:
      - name: sentiment
        weight: 1.0
        max_points: 10
        metrics:
          - metric: pbRatio
            brackets:
              - {min: 0, max: 1, points: 10, label: hated}
              - {min: 1, max: 1000000000, points: 0, label: liked}
              - {min: -1000000000, max: 0, points: 0, label: broken}
`

func TestLoadWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overrideYAML), 0o644))

	registry, err := LoadWithOverrides(path)
	require.NoError(t, err)

	// Built-in replaced in place.
	qv, err := registry.Get(QualityValue)
	require.NoError(t, err)
	assert.Equal(t, "Stricter Quality", qv.Name)
	assert.Equal(t, 80, qv.MinThreshold)

	// New persona appended after the builtins.
	_, err = registry.Get("contrarian")
	require.NoError(t, err)
	assert.Len(t, registry.IDs(), 7)
}

func TestLoadWithOverridesStrictFields(t *testing.T) {
	bad := `
personas:
  - id: quality_value
    nam: typo-field
`
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadWithOverrides(path)
	assert.Error(t, err)
}

func TestLoadWithOverridesEmptyPathFallsBack(t *testing.T) {
	registry, err := LoadWithOverrides("")
	require.NoError(t, err)
	assert.Len(t, registry.IDs(), 6)
}

func TestLoadWithOverridesInvalidTable(t *testing.T) {
	bad := `
personas:
  - id: broken
    name: Broken
    min_threshold: 50
    categories:
      - name: only
        weight: 0.4
        max_points: 10
        metrics:
          - metric: peRatio
            brackets:
              - {min: 0, max: 1000000000, points: 10, label: all}
              - {min: -1000000000, max: 0, points: 0, label: neg}
`
	path := filepath.Join(t.TempDir(), "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadWithOverrides(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertSchemaObject(t *testing.T) {
	schema, err := convertSchema(map[string]any{
		"type":        "object",
		"description": "one scored candidate",
		"required":    []any{"symbol", "score"},
		"properties": map[string]any{
			"symbol": map[string]any{"type": "string"},
			"score": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 100,
			},
			"verdict": map[string]any{
				"type": "string",
				"enum": []any{"strong_fit", "poor_fit"},
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, schema)

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, "one scored candidate", schema.Description)
	assert.Equal(t, []string{"symbol", "score"}, schema.Required)

	require.Contains(t, schema.Properties, "symbol")
	assert.Equal(t, genai.TypeString, schema.Properties["symbol"].Type)

	score := schema.Properties["score"]
	require.NotNil(t, score.Minimum)
	require.NotNil(t, score.Maximum)
	assert.Equal(t, float64(0), *score.Minimum)
	assert.Equal(t, float64(100), *score.Maximum)

	assert.Equal(t, []string{"strong_fit", "poor_fit"}, schema.Properties["verdict"].Enum)
}

func TestConvertSchemaArrayOfObjects(t *testing.T) {
	schema, err := convertSchema(map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, genai.TypeArray, schema.Type)
	require.NotNil(t, schema.Items)
	assert.Equal(t, genai.TypeObject, schema.Items.Type)
	assert.Contains(t, schema.Items.Properties, "name")
}

func TestConvertSchemaStringSlices(t *testing.T) {
	// Hand-built schemas carry []string where unmarshalled JSON carries []any.
	schema, err := convertSchema(map[string]any{
		"type":     "object",
		"required": []string{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string", "enum": []string{"x", "y"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, schema.Required)
	assert.Equal(t, []string{"x", "y"}, schema.Properties["a"].Enum)
}

func TestConvertSchemaRejectsUnknownType(t *testing.T) {
	_, err := convertSchema(map[string]any{"type": "tuple"})
	assert.Error(t, err)
}

func TestConvertSchemaRejectsMalformedProperty(t *testing.T) {
	_, err := convertSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bad": "not an object",
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestConvertSchemaEmpty(t *testing.T) {
	schema, err := convertSchema(nil)
	require.NoError(t, err)
	assert.Nil(t, schema)
}

func TestToFloat(t *testing.T) {
	v, ok := toFloat(float64(1.5))
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok = toFloat(3)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = toFloat(int64(7))
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = toFloat("nope")
	assert.False(t, ok)
}

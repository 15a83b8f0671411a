package llm

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// convertSchema converts a map-form JSON schema (the shape carried on
// contracts.ModelRequest) into a genai.Schema for structured output.
func convertSchema(schemaMap map[string]any) (*genai.Schema, error) {
	if len(schemaMap) == 0 {
		return nil, nil
	}

	schema := &genai.Schema{}

	if typeStr, ok := schemaMap["type"].(string); ok {
		switch strings.ToLower(typeStr) {
		case "object":
			schema.Type = genai.TypeObject
		case "array":
			schema.Type = genai.TypeArray
		case "string":
			schema.Type = genai.TypeString
		case "number":
			schema.Type = genai.TypeNumber
		case "integer":
			schema.Type = genai.TypeInteger
		case "boolean":
			schema.Type = genai.TypeBoolean
		default:
			return nil, fmt.Errorf("unsupported schema type %q", typeStr)
		}
	}

	if desc, ok := schemaMap["description"].(string); ok {
		schema.Description = desc
	}

	switch enum := schemaMap["enum"].(type) {
	case []string:
		schema.Enum = enum
	case []any:
		for _, v := range enum {
			if s, ok := v.(string); ok {
				schema.Enum = append(schema.Enum, s)
			}
		}
	}

	switch required := schemaMap["required"].(type) {
	case []string:
		schema.Required = required
	case []any:
		for _, v := range required {
			if s, ok := v.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if min, ok := toFloat(schemaMap["minimum"]); ok {
		schema.Minimum = &min
	}
	if max, ok := toFloat(schemaMap["maximum"]); ok {
		schema.Maximum = &max
	}

	if itemsMap, ok := schemaMap["items"].(map[string]any); ok {
		items, err := convertSchema(itemsMap)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		schema.Items = items
	}

	if propsMap, ok := schemaMap["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(propsMap))
		for name, raw := range propsMap {
			propMap, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %q is not an object", name)
			}
			prop, err := convertSchema(propMap)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			schema.Properties[name] = prop
		}
	}

	return schema, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

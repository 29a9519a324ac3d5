package freshness

import "github.com/abhisek/tutorly/internal/llm"

// Batch calls return a JSON array; each element is checked on its own
// against one of these item schemas.

var topicItemSchema = &llm.Schema{
	Name: "trending-topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":     map[string]any{"type": "string", "minLength": 1},
			"summary":  map[string]any{"type": "string"},
			"priority": map[string]any{"type": "string", "enum": []any{"high", "medium", "low"}},
			"score":    map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		},
		"required": []any{"name", "priority", "score"},
	},
}

var flagItemSchema = &llm.Schema{
	Name: "outdated-flag",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"item_id":    map[string]any{"type": "string", "minLength": 1},
			"reason":     map[string]any{"type": "string", "minLength": 1},
			"severity":   map[string]any{"type": "string", "enum": []any{"high", "medium", "low"}},
			"suggestion": map[string]any{"type": "string"},
		},
		"required": []any{"item_id", "reason", "severity"},
	},
}

// OutlineSchema is the structured shape of one drafted lesson outline.
var OutlineSchema = &llm.Schema{
	Name:        "lesson-outline",
	Description: "Outline for a new lesson",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"objectives": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"sections": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"title", "objectives", "sections"},
		"additionalProperties": false,
	},
}

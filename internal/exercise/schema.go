package exercise

import "github.com/abhisek/tutorly/internal/llm"

// ExerciseSchema defines the JSON schema for exercise generation.
var ExerciseSchema = &llm.Schema{
	Name:        "exercise",
	Description: "A practice exercise with instructions, optional starter code, hints and quiz questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":        map[string]any{"type": "string"},
			"description":  map[string]any{"type": "string"},
			"instructions": map[string]any{"type": "string"},
			"starter_code": map[string]any{
				"type":        "string",
				"description": "Starter code for coding exercises, otherwise an empty string",
			},
			"hints": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"questions": map[string]any{
				"type":        "array",
				"description": "Multiple-choice questions for quiz exercises, otherwise empty",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"correct_index": map[string]any{"type": "integer"},
					},
					"required":             []any{"question", "options", "correct_index"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "description", "instructions", "starter_code", "hints", "questions"},
		"additionalProperties": false,
	},
}

// EvaluationSchema defines the JSON schema for the evaluator call.
var EvaluationSchema = &llm.Schema{
	Name:        "exercise-evaluation",
	Description: "Assessment of a learner submission",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"description": "Base quality score from 0 to 100",
				"minimum":     0,
				"maximum":     100,
			},
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"improvements": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"suggestions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"encouragement": map[string]any{"type": "string"},
		},
		"required":             []any{"score", "strengths", "improvements", "suggestions", "encouragement"},
		"additionalProperties": false,
	},
}

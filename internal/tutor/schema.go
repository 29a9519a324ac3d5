package tutor

import "github.com/abhisek/tutorly/internal/llm"

// LessonSchema defines the JSON schema for a full personalized lesson.
var LessonSchema = &llm.Schema{
	Name:        "lesson-artifact",
	Description: "A personalized lesson with objectives, body, optional code, a quiz and next steps",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short lesson title (3-8 words)",
			},
			"objectives": map[string]any{
				"type":        "array",
				"description": "2-4 learning objectives",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Lesson body in plain text or markdown",
			},
			"code_example": map[string]any{
				"type":        "string",
				"description": "A short runnable example, or an empty string when code does not help",
			},
			"quiz": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{"type": "string"},
					"options": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string"},
						"minItems": 2,
					},
					"correct_index": map[string]any{
						"type":    "integer",
						"minimum": 0,
					},
					"explanation": map[string]any{"type": "string"},
				},
				"required":             []any{"question", "options", "correct_index", "explanation"},
				"additionalProperties": false,
			},
			"next_steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"title", "objectives", "content", "code_example", "quiz", "next_steps"},
		"additionalProperties": false,
	},
}

// BriefLessonSchema is the reduced shape used by the secondary lesson path.
var BriefLessonSchema = &llm.Schema{
	Name:        "brief-lesson",
	Description: "A short lesson with a title, a body and next steps",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":   map[string]any{"type": "string"},
			"content": map[string]any{"type": "string"},
			"next_steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"title", "content", "next_steps"},
		"additionalProperties": false,
	},
}

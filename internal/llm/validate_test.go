package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-exercise",
		Description: "A test exercise",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":   map[string]any{"type": "string"},
				"minutes": map[string]any{"type": "integer", "minimum": 0},
				"level":   map[string]any{"type": "string", "enum": []any{"beginner", "intermediate", "advanced"}},
				"hints": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"title", "minutes"},
		},
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"title":"Few-shot","minutes":10,"level":"beginner"}`, false},
		{"optional omitted", `{"title":"Few-shot","minutes":5}`, false},
		{"missing required", `{"title":"Few-shot"}`, true},
		{"wrong type", `{"title":"Few-shot","minutes":"ten"}`, true},
		{"bad enum", `{"title":"Few-shot","minutes":5,"level":"expert"}`, true},
		{"negative", `{"title":"Few-shot","minutes":-1}`, true},
		{"array item type", `{"title":"Few-shot","minutes":5,"hints":[1,2]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(testSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateJSON_NilSchema(t *testing.T) {
	if err := ValidateJSON(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

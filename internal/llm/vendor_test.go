package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

var topicSchema = &Schema{
	Name: "test-topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
		},
		"required":             []any{"title"},
		"additionalProperties": false,
	},
}

func userRequest(text string) Request {
	return Request{
		System:    "You are a patient programming tutor.",
		Messages:  []Message{{Role: RoleUser, Content: text}},
		MaxTokens: 256,
	}
}

// vendorServer serves status and body for every request and hands the
// decoded request body to inspect when it is non-nil.
func vendorServer(t *testing.T, status int, header http.Header, body any, inspect func(r *http.Request, req map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			var req map[string]any
			_ = json.NewDecoder(r.Body).Decode(&req)
			inspect(r, req)
		}
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tutorly/internal/compose"
	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/llm"
	"github.com/abhisek/tutorly/internal/metrics"
	"github.com/abhisek/tutorly/internal/orchestrator"
	"github.com/abhisek/tutorly/internal/video"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testVideos() *video.Recommender {
	return video.NewRecommender(&video.Catalog{
		Buckets: []video.Bucket{
			{Topic: "neural-networks", Videos: []video.Candidate{
				{VideoID: "nn-1", Title: "Neural networks from scratch", EducationalValue: "high", Difficulty: "beginner", Language: "en"},
				{VideoID: "nn-2", Title: "Backprop intuition", EducationalValue: "medium", Difficulty: "beginner", Language: "en"},
			}},
		},
	}, nil)
}

func newTestServer(opts Options, responses ...llm.MockResponse) *Server {
	videos := testVideos()
	o := orchestrator.New(llm.NewMockProvider(responses...), orchestrator.Options{Videos: videos})
	return New(o, videos, opts)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(Options{})
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	s = newTestServer(Options{Ping: func(context.Context) error { return errors.New("database is locked") }})
	rec = do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunWorkflow_ErrorMapping(t *testing.T) {
	s := newTestServer(Options{})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		field  string
	}{
		{"unknown workflow", "/v1/workflows/grade_everything", `{}`, http.StatusNotFound, ""},
		{"missing topic", "/v1/workflows/learning_session", `{"params": {}}`, http.StatusBadRequest, "topic"},
		{"malformed body", "/v1/workflows/learning_session", `{"params": `, http.StatusBadRequest, "body"},
		{"empty body", "/v1/workflows/emotional_intervention", "", http.StatusBadRequest, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.NotEmpty(t, body["error"])
			if tt.field != "" {
				assert.Equal(t, tt.field, body["field"])
			}
		})
	}
}

func TestRunWorkflow_EmotionalIntervention(t *testing.T) {
	s := newTestServer(Options{})

	rec := do(t, s, http.MethodPost, "/v1/workflows/emotional_intervention",
		`{"context": {"attempts": 1}, "params": {"message": "this is boring"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "boredom", body["emotion"].(map[string]any)["emotion"])
	assert.Equal(t, "challenge", body["intervention"].(map[string]any)["type"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "emotional_intervention", meta["workflow"])
	assert.NotEmpty(t, meta["request_id"])
}

func TestRespond_ResponseContract(t *testing.T) {
	s := newTestServer(Options{}, llm.MockFailure(), llm.MockFailure())

	rec := do(t, s, http.MethodPost, "/v1/respond", `{"input": "I'm lost with gradients"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, compose.Canned(emotion.Confusion), body["text"])
	assert.Nil(t, body["audio"])
	meta := body["metadata"].(map[string]any)
	assert.Equal(t, "confusion", meta["emotion"])
	assert.Equal(t, float64(compose.TierStatic), meta["fallback_tier_used"])
	assert.Len(t, body["suggestions"], len(compose.GenericSuggestions()))
}

func TestActions(t *testing.T) {
	s := newTestServer(Options{})

	rec := do(t, s, http.MethodPost, "/v1/actions/intervention/decide", `{"emotion": "bored", "severity": 0.8}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode(t, rec)["result"].(map[string]any)
	assert.Equal(t, "challenge", result["type"])

	rec = do(t, s, http.MethodPost, "/v1/actions/tutor/teleport", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/actions/video/find", `{"topic": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/v1/actions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["actions"], len(orchestrator.Actions()))
}

func TestListVideos(t *testing.T) {
	s := newTestServer(Options{})

	rec := do(t, s, http.MethodGet, "/v1/videos?topic=neural+networks&count=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	videos := decode(t, rec)["videos"].([]any)
	require.Len(t, videos, 1)
	assert.Equal(t, "nn-1", videos[0].(map[string]any)["video_id"])

	rec = do(t, s, http.MethodGet, "/v1/videos?topic=quantum-knitting", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["videos"])

	for _, path := range []string{"/v1/videos", "/v1/videos?topic=x&count=many"} {
		rec = do(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(Options{RateLimit: 0.001, Burst: 2})

	for i := range 2 {
		rec := do(t, s, http.MethodGet, "/v1/workflows", "")
		require.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("request %d", i))
	}
	rec := do(t, s, http.MethodGet, "/v1/workflows", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code, "health checks are not limited")
}

func TestIPLimiter_SweepsIdleClients(t *testing.T) {
	l := newIPLimiter(1, 1)
	now := time.Now()

	assert.True(t, l.allow("10.0.0.1", now))
	assert.False(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.2", now))

	later := now.Add(2 * limiterIdle)
	assert.True(t, l.allow("10.0.0.3", later))
	assert.Len(t, l.clients, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	videos := testVideos()
	o := orchestrator.New(llm.NewMockProvider(llm.MockText("Sure.")), orchestrator.Options{
		Videos:  videos,
		Metrics: metrics.New(reg),
	})
	s := New(o, videos, Options{Gatherer: reg})

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/v1/respond", `{"input": "this is awesome"}`).Code)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tutorly_workflow_total{outcome="ok",workflow="respond"} 1`)
}

func TestCORS(t *testing.T) {
	s := newTestServer(Options{CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodGet, "/v1/workflows", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&orchestrator.ErrUnknownWorkflow{Name: "x"}, http.StatusNotFound},
		{&orchestrator.ErrUnknownAction{Module: "a", Action: "b"}, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", &orchestrator.ErrValidation{Field: "f"}), http.StatusBadRequest},
		{context.Canceled, statusClientClosedRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(Options{ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

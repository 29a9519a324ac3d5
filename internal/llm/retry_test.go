package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(MockText(`{"ok":true}`))
	p := WithRetry(mock, retryConfig(), nil)

	resp, err := p.Generate(t.Context(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mock := NewMockProvider(down(), MockText(`{"ok":true}`))
	p := WithRetry(mock, retryConfig(), zap.New(core))

	resp, err := p.Generate(WithPurpose(t.Context(), "lesson"), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 2, mock.CallCount())

	entries := logs.FilterMessage("retrying generation").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "lesson", entries[0].ContextMap()["purpose"])
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	mock := NewMockProvider(down(), down(), down())
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(t.Context(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_NotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"max tokens", &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}},
		{"rejected", &ErrRejected{Status: 401, Err: errors.New("bad key")}},
		{"deadline", context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: tt.err}, MockText("unreached"))
			p := WithRetry(mock, retryConfig(), nil)

			_, err := p.Generate(t.Context(), Request{})
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, mock.CallCount())
		})
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	invalid := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
	mock := NewMockProvider(invalid, invalid, MockText(`{"ok":true}`))
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(t.Context(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockText(`{"ok":true}`))
	p := WithRetry(mock, retryConfig(), nil)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.Error(t, err)
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
		MockText(`{"ok":true}`),
	)
	p := WithRetry(mock, retryConfig(), nil)

	resp, err := p.Generate(t.Context(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_GivesUpWhenWaitOutlivesDeadline(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Minute, Err: errors.New("429")}},
		MockText("unreached"),
	)
	p := WithRetry(mock, retryConfig(), nil)

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()

	start := time.Now()
	_, err := p.Generate(ctx, Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
	assert.Equal(t, 1, mock.CallCount())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig(), nil)
	assert.Equal(t, "mock", p.ModelID())
}

func TestRetry_ClampsAttempts(t *testing.T) {
	mock := NewMockProvider(MockFailure(), MockText("unreached"))
	p := WithRetry(mock, RetryConfig{MaxAttempts: 0}, nil)

	_, err := p.Generate(t.Context(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

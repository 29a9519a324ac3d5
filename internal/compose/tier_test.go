package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func ok(v string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return v, nil }
}

func fail(err error, called *int) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		*called++
		return "", err
	}
}

func TestRun_FirstSuccessShortCircuits(t *testing.T) {
	var later int
	v, tier, err := Run(t.Context(), nil, []Tier[string]{
		{ID: TierPrimary, Name: "primary", Attempt: ok("p")},
		{ID: TierSecondary, Name: "secondary", Attempt: fail(errors.New("x"), &later)},
	})
	require.NoError(t, err)
	assert.Equal(t, "p", v)
	assert.Equal(t, TierPrimary, tier)
	assert.Zero(t, later)
}

func TestRun_FallsThroughAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	var calls int
	v, tier, err := Run(t.Context(), zap.New(core), []Tier[string]{
		{ID: TierPrimary, Name: "primary", Attempt: fail(errors.New("boom"), &calls)},
		{ID: TierSecondary, Name: "secondary", Attempt: fail(errors.New("bust"), &calls)},
		Static("canned", "static"),
	})
	require.NoError(t, err)
	assert.Equal(t, "static", v)
	assert.Equal(t, TierStatic, tier)
	assert.Equal(t, 2, calls)

	failed := logs.FilterMessage("fallback tier failed").All()
	require.Len(t, failed, 2)
	assert.Equal(t, "primary", failed[0].ContextMap()["tier"])
	assert.Equal(t, "secondary", failed[1].ContextMap()["tier"])
	assert.Equal(t, 1, logs.FilterMessage("static fallback used").Len())
}

func TestRun_SecondaryTier(t *testing.T) {
	var calls int
	v, tier, err := Run(t.Context(), nil, []Tier[string]{
		{ID: TierPrimary, Name: "primary", Attempt: fail(errors.New("boom"), &calls)},
		{ID: TierSecondary, Name: "secondary", Attempt: ok("s")},
		Static("canned", "static"),
	})
	require.NoError(t, err)
	assert.Equal(t, "s", v)
	assert.Equal(t, TierSecondary, tier)
}

func TestRun_CancellationStopsChain(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	var later int
	_, _, err := Run(ctx, nil, []Tier[string]{
		{ID: TierPrimary, Name: "primary", Attempt: func(context.Context) (string, error) {
			cancel()
			return "", context.Canceled
		}},
		{ID: TierSecondary, Name: "secondary", Attempt: fail(errors.New("x"), &later)},
		Static("canned", "static"),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, later, "no tier runs after cancellation")
}

func TestRun_DeadlineOfOneCallFallsThrough(t *testing.T) {
	var calls int
	v, tier, err := Run(t.Context(), nil, []Tier[string]{
		{ID: TierPrimary, Name: "primary", Attempt: fail(context.DeadlineExceeded, &calls)},
		Static("canned", "static"),
	})
	require.NoError(t, err)
	assert.Equal(t, "static", v)
	assert.Equal(t, TierStatic, tier)
}

func TestRun_Exhausted(t *testing.T) {
	var calls int
	cause := errors.New("cause")
	_, tier, err := Run(t.Context(), nil, []Tier[string]{
		{ID: TierPrimary, Name: "primary", Attempt: fail(cause, &calls)},
	})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, -1, tier)

	_, _, err = Run[string](t.Context(), nil, nil)
	assert.ErrorIs(t, err, ErrExhausted)
}

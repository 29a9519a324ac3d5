// Package compose assembles the learner-facing response and owns the
// degrade-on-failure policy: an ordered chain of tiers tried until one
// succeeds, ending in a static canned reply.
package compose

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Fallback tier IDs.
const (
	TierPrimary   = 0
	TierSecondary = 1
	TierStatic    = 2
)

// Tier is one step of a fallback chain.
type Tier[T any] struct {
	ID      int
	Name    string
	Attempt func(ctx context.Context) (T, error)
}

// ErrExhausted is returned by Run when every tier failed.
var ErrExhausted = errors.New("all fallback tiers failed")

// Run tries tiers in order and returns the first success with its tier ID.
// A failure while ctx is done stops the chain with ctx.Err(); a cancelled
// request gets no partial result.
func Run[T any](ctx context.Context, log *zap.Logger, tiers []Tier[T]) (T, int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var zero T
	var last error
	for _, t := range tiers {
		if err := ctx.Err(); err != nil {
			return zero, t.ID, err
		}
		v, err := t.Attempt(ctx)
		if err == nil {
			if t.ID == TierStatic {
				log.Warn("static fallback used", zap.String("tier", t.Name))
			}
			return v, t.ID, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, t.ID, ctxErr
		}
		log.Warn("fallback tier failed",
			zap.Int("tier_id", t.ID),
			zap.String("tier", t.Name),
			zap.Error(err))
		last = err
	}
	if last == nil {
		return zero, -1, ErrExhausted
	}
	return zero, -1, fmt.Errorf("%w: %w", ErrExhausted, last)
}

// Static wraps a value that cannot fail as the last tier.
func Static[T any](name string, v T) Tier[T] {
	return Tier[T]{
		ID:      TierStatic,
		Name:    name,
		Attempt: func(context.Context) (T, error) { return v, nil },
	}
}

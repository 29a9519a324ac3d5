// Package orchestrator sequences the tutoring modules into the named
// workflows and the chat turn, threading the emotional assessment from step
// to step. Each run is independent; nothing is kept between requests.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/compose"
	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/exercise"
	"github.com/abhisek/tutorly/internal/freshness"
	"github.com/abhisek/tutorly/internal/learner"
	"github.com/abhisek/tutorly/internal/llm"
	"github.com/abhisek/tutorly/internal/metrics"
	"github.com/abhisek/tutorly/internal/store"
	"github.com/abhisek/tutorly/internal/tutor"
	"github.com/abhisek/tutorly/internal/video"
)

// Options configures the modules the orchestrator builds. Zero values use
// each module's defaults.
type Options struct {
	Videos    *video.Recommender
	Events    store.EventRepo
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	Tutor     tutor.Config
	Exercise  exercise.Config
	Freshness freshness.Config
}

// Orchestrator runs workflows against one generation provider.
type Orchestrator struct {
	classifier *emotion.Classifier
	tutor      *tutor.Personalizer
	exercises  *exercise.Service
	freshness  *freshness.Scanner
	videos     *video.Recommender
	composer   *compose.Composer

	events  store.EventRepo
	metrics *metrics.Metrics
	log     *zap.Logger
}

// New wires the modules around provider.
func New(provider llm.Provider, opts Options) *Orchestrator {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Events == nil {
		opts.Events = store.NopEventRepo{}
	}
	if opts.Videos == nil {
		opts.Videos = video.NewRecommender(video.DefaultCatalog(), nil)
	}
	if opts.Exercise.Validators == nil {
		opts.Exercise = exercise.DefaultConfig()
	}

	personalizer := tutor.NewPersonalizer(provider, opts.Tutor, log.Named("tutor"))
	return &Orchestrator{
		classifier: emotion.NewClassifier(),
		tutor:      personalizer,
		exercises:  exercise.NewService(provider, opts.Exercise, log.Named("exercise")),
		freshness:  freshness.NewScanner(provider, opts.Freshness, log.Named("freshness")),
		videos:     opts.Videos,
		composer:   compose.NewComposer(personalizer, log.Named("compose")),
		events:     opts.Events,
		metrics:    opts.Metrics,
		log:        log,
	}
}

// RunWorkflow decodes params for the named workflow and runs it. Only
// *ErrUnknownWorkflow, *ErrValidation and caller cancellation are returned
// as errors; generation failures degrade the result instead.
func (o *Orchestrator) RunWorkflow(ctx context.Context, name string, lc learner.Context, params json.RawMessage) (*Result, error) {
	switch name {
	case WorkflowLearningSession:
		var p LearningSessionParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return o.LearningSession(ctx, lc, p)
	case WorkflowExerciseEvaluation:
		var p ExerciseEvaluationParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return o.ExerciseEvaluation(ctx, lc, p)
	case WorkflowContentUpdate:
		var p ContentUpdateParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return o.ContentUpdate(ctx, p)
	case WorkflowEmotionalIntervention:
		var p EmotionalInterventionParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		return o.EmotionalIntervention(ctx, lc, p)
	}
	return nil, &ErrUnknownWorkflow{Name: name}
}

func decodeParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return invalid("params", err.Error())
	}
	return nil
}

// run tracks one workflow execution for the audit log.
type run struct {
	meta      Meta
	emotion   emotion.Emotion
	decision  string
	startedAt time.Time
}

func (o *Orchestrator) begin(ctx context.Context, workflow string) (context.Context, *run) {
	id := uuid.NewString()
	now := time.Now()
	r := &run{
		meta: Meta{
			RequestID:    id,
			Workflow:     workflow,
			StartedAt:    now.UTC(),
			Steps:        []string{},
			FallbackTier: -1,
		},
		startedAt: now,
	}
	return llm.WithRequestID(ctx, id), r
}

func (r *run) step(name string) {
	r.meta.Steps = append(r.meta.Steps, name)
}

// tier records the fallback tier a chain finished on.
func (r *run) tier(id int) {
	r.meta.FallbackTier = id
	if id > compose.TierPrimary {
		r.meta.Degraded = true
	}
}

func (r *run) degrade() {
	r.meta.Degraded = true
}

// finish stamps meta, writes the audit row and metrics. Audit failures are
// logged and never fail the run.
func (o *Orchestrator) finish(ctx context.Context, r *run, err error) Meta {
	r.meta.DurationMs = time.Since(r.startedAt).Milliseconds()

	outcome := store.OutcomeOK
	switch {
	case err != nil:
		outcome = store.OutcomeError
	case r.meta.Degraded:
		outcome = store.OutcomeDegraded
	}

	data := store.WorkflowEventData{
		RequestID:    r.meta.RequestID,
		Workflow:     r.meta.Workflow,
		Outcome:      outcome,
		Emotion:      string(r.emotion),
		Intervention: r.decision,
		FallbackTier: r.meta.FallbackTier,
		DurationMs:   r.meta.DurationMs,
		Steps:        r.meta.Steps,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	if aerr := o.events.AppendWorkflow(context.WithoutCancel(ctx), data); aerr != nil {
		o.log.Warn("audit write failed", zap.String("request_id", data.RequestID), zap.Error(aerr))
	}

	o.metrics.ObserveWorkflow(r.meta.Workflow, outcome, time.Duration(r.meta.DurationMs)*time.Millisecond)
	o.metrics.FallbackTier(r.meta.FallbackTier)
	if r.emotion != "" {
		o.metrics.Emotion(string(r.emotion))
	}
	if r.decision != "" {
		o.metrics.Intervention(r.decision)
	}

	fields := []zap.Field{
		zap.String("request_id", data.RequestID),
		zap.String("workflow", data.Workflow),
		zap.String("outcome", outcome),
		zap.Int("fallback_tier", data.FallbackTier),
		zap.Int64("duration_ms", data.DurationMs),
		zap.Strings("steps", data.Steps),
	}
	switch {
	case err == nil:
		o.log.Info("workflow finished", fields...)
	case errors.Is(err, context.Canceled):
		o.log.Info("workflow cancelled", fields...)
	default:
		o.log.Warn("workflow failed", append(fields, zap.Error(err))...)
	}
	return r.meta
}
